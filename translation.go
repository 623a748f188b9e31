package gotalign

// Translation is a completed translation: the engine response and the speed
// at which it was produced. It is never modified after construction, so it
// can be queried from several goroutines at once.
//
// The zero value, and a nil *Translation, model "nothing translated yet":
// the text is empty and every alignment query returns an empty list.
type Translation struct {
	response EngineResponse
	speed    int
}

// NewTranslation wraps resp. Speed is in words per second, 0 when resp was
// served from a cache.
func NewTranslation(resp EngineResponse, speed int) *Translation {
	return &Translation{
		response: resp,
		speed:    speed,
	}
}

// IsEmpty reports whether no response is attached.
func (t *Translation) IsEmpty() bool {
	return t == nil || t.response == nil
}

// Text returns the translated text.
func (t *Translation) Text() string {
	if t.IsEmpty() {
		return ""
	}
	return t.response.TargetText()
}

// Speed returns the translation speed in words per second, 0 for a cached
// response, or -1 if empty.
func (t *Translation) Speed() int {
	if t.IsEmpty() {
		return -1
	}
	return t.speed
}

// Response returns the underlying engine response, nil if empty.
func (t *Translation) Response() EngineResponse {
	if t.IsEmpty() {
		return nil
	}
	return t.response
}

// Alignments returns the spans aligned to the selection [first, last].
// See the package-level Alignments for the exact contract.
func (t *Translation) Alignments(direction Direction, first, last int) ([]WordAlignment, error) {
	if t.IsEmpty() {
		return nil, nil
	}
	return Alignments(t.response, direction, first, last)
}
