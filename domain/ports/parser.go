package ports

import "github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"

// ConfigParser parses raw configuration bytes into a Config.
type ConfigParser interface {
	// Parse unmarshals bytes into a Config struct.
	Parse(data []byte) (*entities.Config, error)
}
