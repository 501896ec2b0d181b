package hologram

import (
	"strings"

	"github.com/sandertv/gophertunnel/minecraft/text"
)

// PlayerPlaceholder is replaced by the viewer's name when a hologram renders.
const PlayerPlaceholder = "%player%"

// Decorator substitutes placeholders that the hologram package does not know
// about, such as those of a scoreboard or economy plugin.
//
// Decorate is called while the hologram is locked and must not call back into
// the same hologram.
type Decorator interface {
	Decorate(text string, s *Session) string
}

// DecoratorFunc adapts a function to the Decorator interface.
type DecoratorFunc func(text string, s *Session) string

// Decorate implements Decorator.
func (f DecoratorFunc) Decorate(text string, s *Session) string {
	return f(text, s)
}

// Render produces the text shown to s for template.
// Colour tags such as <red> are converted to formatting codes, PlayerPlaceholder
// is replaced by the name of s and d, if non-nil, gets the final say.
// Tags are read by an HTML tokenizer, so entities such as &amp; are unescaped.
func Render(template string, s *Session, d Decorator) string {
	out := colourise(template)
	if s != nil {
		out = strings.ReplaceAll(out, PlayerPlaceholder, s.Name())
	}
	if d != nil {
		out = d.Decorate(out, s)
	}
	return out
}

// colourise converts colour tags in str. Templates without tags are returned
// as they are.
func colourise(str string) string {
	if !strings.ContainsRune(str, '<') {
		return str
	}
	return text.Colourf("%s", str)
}
