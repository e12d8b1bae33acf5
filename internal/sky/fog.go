package sky

import (
	"github.com/gogpu/gg"

	"github.com/i474232898/weather-sky/internal/common"
	"github.com/i474232898/weather-sky/internal/weather"
)

const (
	fogClearVisibility = 20000.0 // m
	fogMinAlpha        = 0.1
	fogMaxAlpha        = 0.65
	minFogAlpha        = 0.01
)

var fogColor = RGB{220, 220, 230}

// Foggy reports whether the weather calls for a fog layer: an explicit fog
// code, or poor visibility in saturated air under heavy cloud.
func Foggy(wx weather.State) bool {
	if weather.IsFogCode(wx.WeatherCode) {
		return true
	}
	return wx.Visibility < 10000 && wx.Humidity > 85 && wx.CloudCover > 60
}

// FogAlpha is the fog layer opacity, zero when not foggy.
func FogAlpha(wx weather.State) float64 {
	if !Foggy(wx) {
		return 0
	}
	return common.Clamp(1-wx.Visibility/fogClearVisibility, fogMinAlpha, fogMaxAlpha)
}

func drawFog(dc *gg.Context, w, h, alpha float64) error {
	g := gg.NewLinearGradientBrush(0, 0, 0, h).
		AddColorStop(0, fogColor.RGBA(alpha*0.35)).
		AddColorStop(1, fogColor.RGBA(alpha))
	dc.SetFillBrush(g)
	dc.DrawRectangle(0, 0, w, h)
	return dc.Fill()
}
