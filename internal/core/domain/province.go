package domain

import "strings"

// Provinces lists the 23 Argentine provinces plus the autonomous city, in the
// canonical spelling they are stored with.
var Provinces = []string{
	"Buenos Aires", "Catamarca", "Chaco", "Chubut", "Cordoba", "Corrientes",
	"Entre Rios", "Formosa", "Jujuy", "La Pampa", "La Rioja", "Mendoza",
	"Misiones", "Neuquen", "Rio Negro", "Salta", "San Juan", "San Luis",
	"Santa Cruz", "Santa Fe", "Santiago Del Estero", "Tierra Del Fuego", "Tucuman", "CABA",
}

// provinceIndex is keyed by the title-cased, accent-free spelling. Title
// casing turns "CABA" into "Caba", so the acronym is indexed under that key.
var provinceIndex = func() map[string]string {
	idx := make(map[string]string, len(Provinces))
	for _, p := range Provinces {
		idx[TitleCase(p)] = p
	}
	return idx
}()

// ValidateProvince accepts any spelling that reduces to a known province after
// trimming, title-casing and removing diacritics, and returns the canonical
// name. The rejection message quotes the raw input.
func ValidateProvince(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", invalid("province", "Error: province is required.")
	}

	key := StripAccents(TitleCase(strings.TrimSpace(s)))
	if p, ok := provinceIndex[key]; ok {
		return p, nil
	}
	if p, ok := provinceIndex[FoldDiacritics(key)]; ok {
		return p, nil
	}
	return "", invalid("province", "Error: '%s' is not a valid province in Argentina.", s)
}
