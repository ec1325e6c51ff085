package mailto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild_NoProtection(t *testing.T) {
	for _, mode := range []string{"", "0", "bogus"} {
		href, label := Builder{Mode: mode}.Build("a@b.com", "")
		assert.Equal(t, "mailto:a@b.com", href, "mode %q", mode)
		assert.Equal(t, "a@b.com", label, "mode %q", mode)
	}
}

func TestBuild_ASCII(t *testing.T) {
	href, label := Builder{Mode: ModeASCII}.Build("a@b.c", "a@b.c")
	assert.Equal(t, "&#109;&#97;&#105;&#108;&#116;&#111;&#58;&#97;&#64;&#98;&#46;&#99;", href)
	assert.Equal(t, "a(at)b.c", label)
}

func TestBuild_Cipher(t *testing.T) {
	href, label := Builder{Mode: "1"}.Build("a@b.com", "")
	assert.Equal(t, "javascript:linkTo_UnCryptMailto('nbjmup+bAc/dpn');", href)
	assert.Equal(t, "a(at)b.com", label)
}

func TestBuild_CustomSubstitutions(t *testing.T) {
	b := Builder{Mode: "2", AtSubst: " [at] ", LastDotSubst: "[dot]"}
	_, label := b.Build("john.doe@example.org", "Mail JOHN.DOE@example.org now")
	assert.Equal(t, "Mail john.doe[at]example[dot]org now", label)
}

func TestEncrypt_RoundTrip(t *testing.T) {
	in := "mailto:Some.One+tag@Example-42.org"
	for _, off := range []int{-10, -3, 1, 5, 10} {
		assert.Equal(t, in, Encrypt(Encrypt(in, off), -off), "offset %d", off)
	}
}

func TestOffset_Clamped(t *testing.T) {
	assert.Equal(t, 10, Builder{Mode: "99"}.offset())
	assert.Equal(t, -10, Builder{Mode: "-99"}.offset())
	assert.True(t, Builder{Mode: "3"}.SpamProtected())
	assert.False(t, Builder{}.SpamProtected())
}
