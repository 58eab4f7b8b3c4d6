package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeTextStripsHTML(t *testing.T) {
	assert.Equal(t, "RELIANCE", SanitizeText("<script>alert(1)</script>RELIANCE"))
	assert.Equal(t, "TCS", SanitizeText("<b>TCS</b>"))
	assert.Equal(t, "plain", SanitizeText("plain"))
}

func TestSanitizeForFormulaInjection(t *testing.T) {
	assert.Equal(t, "'=SUM(A1:A9)", SanitizeForFormulaInjection("=SUM(A1:A9)"))
	assert.Equal(t, "'+1234", SanitizeForFormulaInjection("+1234"))
	assert.Equal(t, "'@cmd", SanitizeForFormulaInjection("@cmd"))
	assert.Equal(t, "INFY", SanitizeForFormulaInjection("INFY"))
	assert.Equal(t, "", SanitizeForFormulaInjection(""))
}

func TestStripUnprintable(t *testing.T) {
	assert.Equal(t, "SBIN", StripUnprintable("SB\x00IN"))
	assert.Equal(t, "a\tb\nc", StripUnprintable("a\tb\nc"))
}
