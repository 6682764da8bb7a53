// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"fmt"
	"strings"

	"github.com/pdiddy/folio/internal/archive"
)

const epubMediaType = "application/epub+zip"

// Paths inside the generated container.
const (
	containerPath = "META-INF/container.xml"
	packagePath   = "OEBPS/content.opf"
	contentPath   = "OEBPS/content.xhtml"
	ncxPath       = "OEBPS/toc.ncx"
)

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`

const contentXHTML = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <title>%[1]s</title>
</head>
<body>
  <h1>%[1]s</h1>
  <div style="white-space: pre-wrap;">%[2]s</div>
</body>
</html>
`

const packageOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" unique-identifier="BookId" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:opf="http://www.idpf.org/2007/opf">
    <dc:title>%[1]s</dc:title>
    <dc:language>%[2]s</dc:language>
    <dc:identifier id="BookId" opf:scheme="UUID">urn:uuid:%[3]s</dc:identifier>
  </metadata>
  <manifest>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="content" href="content.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="content"/>
  </spine>
</package>
`

const tocNCX = `<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head>
    <meta name="dtb:uid" content="urn:uuid:%[2]s"/>
    <meta name="dtb:depth" content="1"/>
    <meta name="dtb:totalPageCount" content="0"/>
    <meta name="dtb:maxPageNumber" content="0"/>
  </head>
  <docTitle>
    <text>%[1]s</text>
  </docTitle>
  <navMap>
    <navPoint id="navPoint-1" playOrder="1">
      <navLabel>
        <text>%[1]s</text>
      </navLabel>
      <content src="content.xhtml"/>
    </navPoint>
  </navMap>
</ncx>
`

// EPUB packages title and text as a single-chapter EPUB 2 book.
func (g *Generator) EPUB(text, title string) ([]byte, error) {
	id := g.newID()
	safeTitle := EscapeXML(title)
	body := strings.ReplaceAll(EscapeXML(normalizeNewlines(text)), "\n", "<br/>")

	lang := g.epub.Language
	if lang == "" {
		lang = "en"
	}

	w, err := archive.NewMimetypeWriter(epubMediaType)
	if err != nil {
		return nil, err
	}
	entries := []archive.Entry{
		{Path: containerPath, Content: []byte(containerXML)},
		{Path: contentPath, Content: []byte(fmt.Sprintf(contentXHTML, safeTitle, body))},
		{Path: packagePath, Content: []byte(fmt.Sprintf(packageOPF, safeTitle, EscapeXML(lang), id))},
		{Path: ncxPath, Content: []byte(fmt.Sprintf(tocNCX, safeTitle, id))},
	}
	for _, e := range entries {
		if err := w.Add(e); err != nil {
			return nil, err
		}
	}
	return w.Bytes()
}

// EscapeXML escapes the characters that would break element content.
// Ampersands go first so the entities introduced for < and > are not
// escaped again.
func EscapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
