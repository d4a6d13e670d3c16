package markdown

import "testing"

type panicRenderer struct{}

func (panicRenderer) Render(string) (string, error) {
	panic("boom")
}

func TestRender_EmptyInput(t *testing.T) {
	if out := Render(80, 0, nil); out != nil {
		t.Fatalf("expected nil for empty input, got %q", string(out))
	}
	if out := Render(80, 0, []byte("  \n\n")); out != nil {
		t.Fatalf("expected nil for blank input, got %q", string(out))
	}
}

func TestRender_Indents(t *testing.T) {
	out := Render(40, 4, []byte("hello"))
	if len(out) == 0 {
		t.Fatal("expected output")
	}
	if out[0] != ' ' {
		t.Fatalf("expected indented output, got %q", string(out))
	}
}

func TestSafeRender_RecoversFromRendererPanic(t *testing.T) {
	const renderWidth = 20

	rendererMu.Lock()
	prev, hadPrev := renderers[renderWidth]
	renderers[renderWidth] = panicRenderer{}
	rendererMu.Unlock()

	defer func() {
		rendererMu.Lock()
		if hadPrev {
			renderers[renderWidth] = prev
		} else {
			delete(renderers, renderWidth)
		}
		rendererMu.Unlock()
	}()

	out := SafeRender(renderWidth, 0, []byte("hello\n"))
	if string(out) != "hello" {
		t.Fatalf("expected fallback to original markdown, got %q", string(out))
	}
}
