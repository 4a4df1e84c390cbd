package postcodevalidator

// Level is the precision of a postcode.
type Level int

const (
	LevelNone Level = iota
	LevelArea
	LevelDistrict
	LevelSector
	LevelUnit
)

var levelNames = [...]string{
	LevelNone:     "none",
	LevelArea:     "area",
	LevelDistrict: "district",
	LevelSector:   "sector",
	LevelUnit:     "unit",
}

func (l Level) String() string {
	if l < LevelNone || l > LevelUnit {
		return "unknown"
	}

	return levelNames[l]
}

// Levels lists every Level from least to most precise.
func Levels() []Level {
	return []Level{LevelNone, LevelArea, LevelDistrict, LevelSector, LevelUnit}
}

// Classify returns the most precise level value is shaped like. A spaceless
// value that is both a district and a sector, such as "SO16", is a district.
func (c *Classifier) Classify(value string) Level {
	switch {
	case c.IsLikelyUnitPostcode(value):
		return LevelUnit
	case c.IsLikelySectorPostcodeStrict(value):
		return LevelSector
	case c.IsLikelyDistrictPostcode(value):
		return LevelDistrict
	case c.IsLikelySectorPostcode(value):
		return LevelSector
	case c.IsLikelyAreaPostcode(value):
		return LevelArea
	default:
		return LevelNone
	}
}
