package core

// FrameKind discriminates the payload carried by a RenderFrame.
type FrameKind int

const (
	// FrameText is a textual frame (e.g. ASCII art or a debug string).
	FrameText FrameKind = iota
	// FramePixels is a raw pixel buffer in row-major RGB or RGBA order.
	FramePixels
)

// RenderFrame is a single frame returned by Env.Render. Exactly one payload is
// populated depending on Kind.
type RenderFrame struct {
	Kind FrameKind

	// Text holds the payload for FrameText frames.
	Text string

	// Width, Height and Pixels hold the payload for FramePixels frames.
	// Convention: RGB uses 3 bytes per pixel, RGBA uses 4.
	Width  int
	Height int
	Pixels []byte
}

// TextFrame builds a textual render frame.
func TextFrame(text string) *RenderFrame {
	return &RenderFrame{Kind: FrameText, Text: text}
}

// PixelFrame builds a pixel render frame.
func PixelFrame(width, height int, pixels []byte) *RenderFrame {
	return &RenderFrame{Kind: FramePixels, Width: width, Height: height, Pixels: pixels}
}
