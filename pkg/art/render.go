package art

import (
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/blacktop/go-termimg"
)

// render converts an already-resized image to an escape string for proto.
func render(img image.Image, proto Protocol, widthCells, heightCells int) (string, error) {
	switch proto {
	case ProtocolKitty:
		return renderTermimg(img, termimg.Kitty, widthCells, heightCells)
	case ProtocolITerm2:
		return renderTermimg(img, termimg.ITerm2, widthCells, heightCells)
	case ProtocolSixel:
		return renderTermimg(img, termimg.Sixel, widthCells, heightCells)
	case ProtocolHalfblocks:
		return renderHalfblocks(img)
	default:
		return "", fmt.Errorf("art: no graphics protocol available")
	}
}

// renderTermimg delegates the pixel protocols to go-termimg.
func renderTermimg(img image.Image, proto termimg.Protocol, widthCells, heightCells int) (string, error) {
	ti := termimg.New(img)
	if ti == nil {
		return "", fmt.Errorf("art: termimg wrapper construction failed")
	}
	ti.Protocol(proto).Size(widthCells, heightCells).Scale(termimg.ScaleFit)
	return ti.Render()
}

// renderHalfblocks renders with U+2580 upper half blocks and 24-bit color.
// Each cell shows two vertical pixels: top as foreground, bottom as
// background. Works on any truecolor terminal with no protocol support.
func renderHalfblocks(img image.Image) (string, error) {
	bounds := img.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()
	if srcW <= 0 || srcH <= 0 {
		return "", nil
	}

	nrgba := toNRGBA(img)

	var b strings.Builder
	b.Grow(srcW * (srcH/2 + 1) * 30)

	for y := 0; y < srcH; y += 2 {
		if y > 0 {
			b.WriteString("\x1b[0m\n")
		}
		for x := 0; x < srcW; x++ {
			top := nrgba.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
			if y+1 >= srcH {
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[49m▀", top.R, top.G, top.B)
				continue
			}
			bot := nrgba.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y+1)
			switch {
			case top.A == 0 && bot.A == 0:
				b.WriteString("\x1b[0m ")
			case top.A == 0:
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[49m▄", bot.R, bot.G, bot.B)
			case bot.A == 0:
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[49m▀", top.R, top.G, top.B)
			default:
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
					top.R, top.G, top.B, bot.R, bot.G, bot.B)
			}
		}
	}
	b.WriteString("\x1b[0m")
	return b.String(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	if nrgba, ok := src.(*image.NRGBA); ok {
		return nrgba
	}
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
