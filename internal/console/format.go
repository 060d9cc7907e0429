package console

import (
	"strconv"
	"strings"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
)

// Format renders an assignment for display, e.g. "d = 0.0889".
func Format(name string, a entities.Argument) string {
	return name + " = " + FormatValue(a)
}

// FormatValue renders a value the way it would be typed back in.
func FormatValue(a entities.Argument) string {
	switch {
	case a.Class == entities.ClassChar:
		return "'" + strings.ReplaceAll(a.Text, "'", "''") + "'"
	case a.Class == entities.ClassString:
		return `"` + strings.ReplaceAll(a.Text, `"`, `""`) + `"`
	case a.Class == entities.ClassLogical && len(a.Real) == 1:
		return strconv.FormatBool(a.Real[0] != 0)
	case !a.Class.IsNumeric() && a.Class != entities.ClassLogical:
		return "<" + string(a.Class) + ">"
	}

	elems := make([]string, len(a.Real))
	for i, re := range a.Real {
		elems[i] = formatFloat(re)
		if a.Complex && i < len(a.Imag) {
			im := a.Imag[i]
			sign := "+"
			if im < 0 {
				sign = "-"
				im = -im
			}
			elems[i] += sign + formatFloat(im) + "i"
		}
	}
	if len(elems) == 1 {
		return elems[0]
	}
	return "[" + strings.Join(elems, " ") + "]"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
