package ports

// TemplateEngine expands variable references in raw configuration.
type TemplateEngine interface {
	// Render returns raw with every reference to vars resolved.
	Render(raw []byte, vars map[string]string) ([]byte, error)
}
