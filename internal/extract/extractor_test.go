package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFileText(t *testing.T) {
	text, err := FromFile("contract.txt", []byte("  This Agreement is made on January 1, 2025.  \n"))
	require.NoError(t, err)
	assert.Equal(t, "This Agreement is made on January 1, 2025.", text)
}

func TestFromFileTextLatin1(t *testing.T) {
	// "café" with a latin-1 encoded é (0xE9), which is not valid UTF-8.
	content := []byte{'c', 'a', 'f', 0xE9}
	text, err := FromFile("note.txt", content)
	require.NoError(t, err)
	assert.Equal(t, "café", text)
}

func TestFromFileHTML(t *testing.T) {
	html := `<html>
	<head><title>NDA</title><style>body { color: red; }</style></head>
	<body>
		<nav>Home | About</nav>
		<script>console.log("tracking");</script>
		<h1>Non-Disclosure   Agreement</h1>
		<p>The parties agree to keep information confidential.</p>
		<footer>Copyright 2025</footer>
	</body>
	</html>`

	text, err := FromFile("nda.html", []byte(html))
	require.NoError(t, err)
	assert.Contains(t, text, "Non-Disclosure Agreement")
	assert.Contains(t, text, "keep information confidential")
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "Home | About")
	assert.NotContains(t, text, "Copyright 2025")
}

func TestFromFileUnsupported(t *testing.T) {
	for _, name := range []string{"scan.pdf", "contract.docx", "old.doc", "data.csv", "noext"} {
		_, err := FromFile(name, []byte("content"))
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrUnsupportedFormat), name)
	}
}

func TestFromFileEmpty(t *testing.T) {
	_, err := FromFile("contract.txt", nil)
	assert.True(t, errors.Is(err, ErrEmptyFile))

	_, err = FromFile("contract.txt", []byte("   \n\t  "))
	assert.True(t, errors.Is(err, ErrEmptyFile))

	_, err = FromFile("page.html", []byte("<html><body><script>x()</script></body></html>"))
	assert.True(t, errors.Is(err, ErrEmptyFile))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "NDA", Title([]byte(`<html><head><title>NDA</title></head><body><h1>Other</h1></body></html>`)))
	assert.Equal(t, "Lease Agreement", Title([]byte(`<html><body><h1>Lease Agreement</h1></body></html>`)))
	assert.Equal(t, "", Title([]byte(`<html><body><p>no headings</p></body></html>`)))
}
