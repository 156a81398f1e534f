// Package climate holds the agrometeorological domain logic: the WMO
// weather-code catalog, the temperature-humidity index and the daily
// snapshot assembler.
package climate

// UnknownDescription is returned for weather codes the catalog does not map
const UnknownDescription = "Unknown"

// Catalog maps WMO weather codes to localized human descriptions
type Catalog struct {
	descriptions map[int]string
}

// NewCatalog creates a catalog from an explicit code table
func NewCatalog(descriptions map[int]string) *Catalog {
	return &Catalog{descriptions: descriptions}
}

// NewDefaultCatalog creates the catalog with the standard WMO code table
// in Brazilian Portuguese.
func NewDefaultCatalog() *Catalog {
	return NewCatalog(map[int]string{
		0:  "Céu limpo",
		1:  "Predominantemente limpo",
		2:  "Parcialmente nublado",
		3:  "Nublado",
		45: "Nevoeiro",
		48: "Nevoeiro com geada",
		51: "Garoa leve",
		53: "Garoa moderada",
		55: "Garoa intensa",
		56: "Garoa congelante leve",
		57: "Garoa congelante intensa",
		61: "Chuva fraca",
		63: "Chuva moderada",
		65: "Chuva forte",
		66: "Chuva congelante leve",
		67: "Chuva congelante forte",
		71: "Neve fraca",
		73: "Neve moderada",
		75: "Neve forte",
		77: "Grãos de neve",
		80: "Pancadas de chuva fracas",
		81: "Pancadas de chuva moderadas",
		82: "Pancadas de chuva violentas",
		85: "Pancadas de neve fracas",
		86: "Pancadas de neve fortes",
		95: "Tempestade",
		96: "Tempestade com granizo fraco",
		99: "Tempestade com granizo forte",
	})
}

// Describe returns the localized description for a weather code,
// or UnknownDescription for unmapped codes.
func (c *Catalog) Describe(code int) string {
	if description, ok := c.descriptions[code]; ok {
		return description
	}
	return UnknownDescription
}
