package export

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/icza/mjpeg"
)

const (
	DefaultFPS         = 10
	DefaultJPEGQuality = 90
)

// Video writes progress frames to an MJPEG AVI file. Wire it to an
// ImageSurface with OnPump(v.AddFrame) to get one frame per flush.
type Video struct {
	writer mjpeg.AviWriter
	opts   *jpeg.Options
	buf    bytes.Buffer
	frames int
	width  int
	height int
}

func NewVideo(path string, width, height, fps int) (*Video, error) {
	if fps <= 0 {
		fps = DefaultFPS
	}
	w, err := mjpeg.New(path, int32(width), int32(height), int32(fps))
	if err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}
	return &Video{
		writer: w,
		opts:   &jpeg.Options{Quality: DefaultJPEGQuality},
		width:  width,
		height: height,
	}, nil
}

// AddFrame encodes img as JPEG and appends it.
func (v *Video) AddFrame(img *image.RGBA) error {
	if b := img.Bounds(); b.Dx() != v.width || b.Dy() != v.height {
		return fmt.Errorf("video frame is %dx%d, want %dx%d", b.Dx(), b.Dy(), v.width, v.height)
	}
	v.buf.Reset()
	if err := jpeg.Encode(&v.buf, img, v.opts); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	if err := v.writer.AddFrame(v.buf.Bytes()); err != nil {
		return fmt.Errorf("add frame: %w", err)
	}
	v.frames++
	return nil
}

func (v *Video) Frames() int { return v.frames }

// Close finalizes the AVI index. The file is unusable until Close returns.
func (v *Video) Close() error {
	return v.writer.Close()
}
