package weather

// WMO weather interpretation codes used by the sky.
const (
	CodeClear        = 0
	CodeMainlyClear  = 1
	CodePartlyCloudy = 2
	CodeOvercast     = 3
	CodeFog          = 45
	CodeRimeFog      = 48
	CodeDrizzle      = 53
	CodeRain         = 63
	CodeSnowSlight   = 71
	CodeSnow         = 73
	CodeSnowHeavy    = 75
	CodeShowers      = 80
	CodeSnowShowers  = 85
	CodeSnowShowersH = 86
	CodeThunderstorm = 95
)

// ConditionFromCode maps a WMO weather code to a Condition.
func ConditionFromCode(code int) Condition {
	switch {
	case code == CodeClear:
		return ConditionClear
	case code >= 1 && code <= 3:
		return ConditionCloudy
	case code == CodeFog || code == CodeRimeFog:
		return ConditionFog
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return ConditionRain
	case (code >= 71 && code <= 77) || code == CodeSnowShowers || code == CodeSnowShowersH:
		return ConditionSnow
	case code >= 95 && code <= 99:
		return ConditionStorm
	default:
		return ConditionUnknown
	}
}

// IsFogCode reports whether code is one of the fog codes.
func IsFogCode(code int) bool {
	return code == CodeFog || code == CodeRimeFog
}

// IsSnowCode reports whether code forces snow regardless of rates and temperature.
func IsSnowCode(code int) bool {
	switch code {
	case CodeSnowSlight, CodeSnow, CodeSnowHeavy, CodeSnowShowers, CodeSnowShowersH:
		return true
	}
	return false
}
