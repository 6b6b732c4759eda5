package codecs

import "fmt"

// aspectCorrections computes the intermediate scale size and the crop or pad
// filter needed to reach the target dimensions while preserving the source
// aspect ratio.
//
// Crop mode scales the source until it covers both target dimensions and
// crops the centered excess; pad mode scales the source until it fits inside
// the target and letterboxes/pillarboxes the centered remainder. All
// arithmetic truncates toward zero and offsets center the difference.
//
// When only one target dimension is supplied the other is derived from the
// source aspect and no filter is produced. Without source dimensions the
// targets pass through untouched.
func aspectCorrections(srcWidth, srcHeight, width, height int, mode string) (int, int, string) {
	if srcWidth <= 0 || srcHeight <= 0 {
		return width, height, ""
	}

	aspect := float64(srcWidth) / float64(srcHeight)

	switch {
	case width <= 0 && height <= 0:
		return 0, 0, ""
	case width > 0 && height <= 0:
		return width, int(float64(width) / aspect), ""
	case height > 0 && width <= 0:
		return int(aspect * float64(height)), height, ""
	}

	// Same aspect ratio: nothing to correct.
	if int(aspect*float64(height)) == width {
		return width, height, ""
	}

	targetAspect := float64(width) / float64(height)

	switch mode {
	case "crop":
		if targetAspect > aspect {
			// Target is wider: scale to target width, crop top/bottom.
			scaledHeight := int(float64(width) / aspect)
			offset := (scaledHeight - height) / 2
			return width, scaledHeight, fmt.Sprintf("crop=%d:%d:0:%d", width, height, offset)
		}
		// Source is wider: scale to target height, crop left/right.
		scaledWidth := int(float64(height) * aspect)
		offset := (scaledWidth - width) / 2
		return scaledWidth, height, fmt.Sprintf("crop=%d:%d:%d:0", width, height, offset)
	case "pad":
		if targetAspect < aspect {
			// Source is wider: scale to target width, pad top/bottom.
			scaledHeight := int(float64(width) / aspect)
			offset := (height - scaledHeight) / 2
			return width, scaledHeight, fmt.Sprintf("pad=%d:%d:0:%d", width, height, offset)
		}
		// Target is wider: scale to target height, pad left/right.
		scaledWidth := int(float64(height) * aspect)
		offset := (width - scaledWidth) / 2
		return scaledWidth, height, fmt.Sprintf("pad=%d:%d:%d:0", width, height, offset)
	}

	return width, height, ""
}
