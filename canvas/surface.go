package canvas

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/draw"
	"image/png"
	"io"
	"strings"

	"github.com/gogpu/gg"
	"github.com/juruen/scrivi/log"
	"github.com/pkg/errors"
)

const dataURLPrefix = "data:image/png;base64,"

// Point is a position in surface-local pixel coordinates.
type Point struct {
	X float64
	Y float64
}

// Style describes how segments are painted on a Surface.
type Style struct {
	LineWidth  float64
	Color      string
	Background string
}

// DefaultStyle is a 3px black round-capped pen on white paper.
func DefaultStyle() Style {
	return Style{LineWidth: 3, Color: "#000000", Background: "#ffffff"}
}

// Surface is the drawing area. Its size always matches the laid out size of
// the element it backs; any resize leaves it blank.
type Surface struct {
	dc    *gg.Context
	style Style
}

func NewSurface(width, height int, style Style) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid surface size %dx%d", width, height)
	}
	s := &Surface{dc: gg.NewContext(width, height), style: style}
	s.applyStyle()
	s.Clear()
	return s, nil
}

func (s *Surface) applyStyle() {
	s.dc.SetLineWidth(s.style.LineWidth)
	s.dc.SetLineCap(gg.LineCapRound)
	s.dc.SetLineJoin(gg.LineJoinRound)
	s.dc.SetHexColor(s.style.Color)
}

func (s *Surface) Width() int  { return s.dc.Width() }
func (s *Surface) Height() int { return s.dc.Height() }

// Segment paints a straight line from one point to another.
func (s *Surface) Segment(from, to Point) {
	s.dc.MoveTo(from.X, from.Y)
	s.dc.LineTo(to.X, to.Y)
	if err := s.dc.Stroke(); err != nil {
		s.dropPath(err)
	}
}

// dropPath discards a path the rasterizer refused to stroke.
func (s *Surface) dropPath(err error) {
	log.Trace.Printf("stroke segment: %v", err)
	s.dc.ClearPath()
}

// Clear fills the whole surface with the background color.
func (s *Surface) Clear() {
	s.dc.ClearPath()
	s.dc.ClearWithColor(gg.Hex(s.style.Background))
}

// Resize changes the surface dimensions and blanks it, even when the size
// did not change.
func (s *Surface) Resize(width, height int) error {
	if err := s.dc.Resize(width, height); err != nil {
		return errors.Wrap(err, "resize surface")
	}
	s.applyStyle()
	s.Clear()
	return nil
}

// Image returns a copy of the current pixels.
func (s *Surface) Image() *image.RGBA {
	_ = s.dc.FlushGPU()
	src := s.dc.Image()
	if img, ok := src.(*image.RGBA); ok {
		return img
	}
	img := image.NewRGBA(src.Bounds())
	draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)
	return img
}

// IsBlank reports whether every pixel has the background color.
func (s *Surface) IsBlank() bool {
	bg := gg.Hex(s.style.Background).Color()
	br, bgc, bb, ba := bg.RGBA()
	img := s.Image()
	for i := 0; i+3 < len(img.Pix); i += 4 {
		if uint32(img.Pix[i])*0x101 != br || uint32(img.Pix[i+1])*0x101 != bgc ||
			uint32(img.Pix[i+2])*0x101 != bb || uint32(img.Pix[i+3])*0x101 != ba {
			return false
		}
	}
	return true
}

// EncodePNG writes the surface as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return png.Encode(w, s.Image())
}

// DataURL returns the surface as a base64 PNG data URL.
func (s *Surface) DataURL() (string, error) {
	return EncodeDataURL(s.Image())
}

// EncodeDataURL encodes img as a base64 PNG data URL.
func EncodeDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", errors.Wrap(err, "encode png")
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL returns the PNG bytes carried by a data URL.
func DecodeDataURL(url string) ([]byte, error) {
	if !strings.HasPrefix(url, dataURLPrefix) {
		return nil, errors.New("not a png data url")
	}
	data, err := base64.StdEncoding.DecodeString(url[len(dataURLPrefix):])
	if err != nil {
		return nil, errors.Wrap(err, "decode data url")
	}
	return data, nil
}
