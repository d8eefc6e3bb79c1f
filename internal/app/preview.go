package app

import (
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/glamour"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/marcus/sidenote/internal/store"
)

const minPreviewWidth = 24

// previewCache renders note bodies as markdown. The renderer is rebuilt
// only when the width changes; the last output is kept per note revision.
type previewCache struct {
	dark     bool
	width    int
	renderer *glamour.TermRenderer

	key string
	out string
}

func newPreviewCache(theme string) *previewCache {
	return &previewCache{dark: theme != "light"}
}

// render returns the note content as wrapped, styled markdown.
func (c *previewCache) render(n store.Note, width int) string {
	if width <= 0 {
		width = 80
	}
	key := n.ID + "|" + n.UpdatedAt.Format(time.RFC3339Nano) + "|" + strconv.Itoa(width)
	if key == c.key {
		return c.out
	}

	input := strings.TrimRight(n.Content, "\n")
	out := input
	if code, ok := highlight(n.Title, input, c.dark); ok {
		out = code
	} else if input != "" {
		if r := c.rendererFor(width); r != nil {
			if rendered, err := r.Render(input); err == nil {
				out = rendered
			}
		}
	}
	out = strings.Trim(out, "\n")
	out = xansi.Hardwrap(out, width, true)

	c.key, c.out = key, out
	return out
}

func (c *previewCache) rendererFor(width int) *glamour.TermRenderer {
	if c.renderer != nil && c.width == width {
		return c.renderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(previewStyle(c.dark)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	c.renderer, c.width = r, width
	return r
}

// highlight renders content as source code when the note title names a
// file type other than markdown or plain text.
func highlight(title, content string, dark bool) (string, bool) {
	if content == "" {
		return "", false
	}
	lexer := lexers.Match(title)
	if lexer == nil {
		return "", false
	}
	name := lexer.Config().Name
	if strings.EqualFold(name, "markdown") || strings.EqualFold(name, "plaintext") {
		return "", false
	}

	style := "github"
	if dark {
		style = "monokai"
	}
	var b strings.Builder
	if err := quick.Highlight(&b, content, name, "terminal256", style); err != nil {
		return "", false
	}
	return b.String(), true
}

func previewStyle(dark bool) glamouransi.StyleConfig {
	base := glamourstyles.LightStyleConfig
	if dark {
		base = glamourstyles.DarkStyleConfig
	}
	// Pane padding comes from lipgloss.
	base.Document.StylePrimitive.BlockPrefix = ""
	base.Document.StylePrimitive.BlockSuffix = ""
	zero := uint(0)
	base.Document.Margin = &zero
	return base
}
