package output

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/fogleman/gg"
	"github.com/icza/mjpeg"
)

const animationFPS = 1

// Frame is one labelled image of an animation.
type Frame struct {
	Label string
	Image image.Image
}

// LabelFrame draws the frame label in a white band above the image.
func LabelFrame(f Frame) image.Image {
	bounds := f.Image.Bounds()
	dc := gg.NewContext(bounds.Dx(), bounds.Dy()+24)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.DrawImage(f.Image, 0, 24)
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(f.Label, 8, 12, 0, 0.5)
	return dc.Image()
}

// WriteAnimation encodes the frames into an MJPEG AVI at one frame per
// second. All frames must have the size of the first.
func WriteAnimation(outputPath string, frames []Frame) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to animate")
	}
	first := LabelFrame(frames[0])
	width := int32(first.Bounds().Dx())
	height := int32(first.Bounds().Dy())

	writer, err := mjpeg.New(outputPath, width, height, animationFPS)
	if err != nil {
		return err
	}

	for i, f := range frames {
		img := first
		if i > 0 {
			img = LabelFrame(f)
		}
		if b := img.Bounds(); int32(b.Dx()) != width || int32(b.Dy()) != height {
			writer.Close()
			return fmt.Errorf("frame %s is %dx%d, expected %dx%d", f.Label, b.Dx(), b.Dy(), width, height)
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}); err != nil {
			writer.Close()
			return err
		}
		if err := writer.AddFrame(buf.Bytes()); err != nil {
			writer.Close()
			return err
		}
	}
	return writer.Close()
}
