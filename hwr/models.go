package hwr

// Request and response bodies of the MyScript iink batch API.

type BatchInput struct {
	Configuration *Configuration `json:"configuration,omitempty"`
	ContentType   string         `json:"contentType"`
	StrokeGroups  []*StrokeGroup `json:"strokeGroups"`
	Width         int32          `json:"width,omitempty"`
	Height        int32          `json:"height,omitempty"`
	XDPI          float32        `json:"xDPI,omitempty"`
	YDPI          float32        `json:"yDPI,omitempty"`
}

type Configuration struct {
	Lang string `json:"lang,omitempty"`
}

type StrokeGroup struct {
	Strokes []*Stroke `json:"strokes"`
}

type Stroke struct {
	X           []float32 `json:"x"`
	Y           []float32 `json:"y"`
	T           []int64   `json:"t,omitempty"` // milliseconds since pen down
	PointerType string    `json:"pointerType,omitempty"`
}

// jiix is the subset of the Jiix export we read text from.
type jiix struct {
	Label string      `json:"label"`
	Text  string      `json:"text"`
	Words []jiixLabel `json:"words"`
	Chars []jiixLabel `json:"chars"`
}

type jiixLabel struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

func (l jiixLabel) value() string {
	if l.Label != "" {
		return l.Label
	}
	return l.Text
}
