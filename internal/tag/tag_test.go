package tag

import "testing"

func TestRender_AttributeOrderAndEscaping(t *testing.T) {
	b := New("a")
	b.AddAttribute("href", "/index.php?id=1&L=1")
	b.AddAttribute("title", `say "hi"`)
	b.SetContent("<b>x</b>")

	got := b.Render()
	want := `<a href="/index.php?id=1&amp;L=1" title="say &#34;hi&#34;"><b>x</b></a>`
	if got != want {
		t.Errorf("Render() = %s, want %s", got, want)
	}
}

func TestRender_RawAttribute(t *testing.T) {
	b := New("a")
	b.AddRawAttribute("href", "&#109;&#97;")
	if got := b.Render(); got != `<a href="&#109;&#97;"></a>` {
		t.Errorf("Render() = %s", got)
	}
}

func TestAddAttribute_Overwrites(t *testing.T) {
	b := New("a")
	b.AddAttribute("class", "one")
	b.AddAttribute("href", "x")
	b.AddAttribute("class", "two")
	v, ok := b.Attribute("class")
	if !ok || v != "two" {
		t.Errorf("class = %q, %v", v, ok)
	}
	if got := b.Render(); got != `<a class="two" href="x"></a>` {
		t.Errorf("Render() = %s", got)
	}
}
