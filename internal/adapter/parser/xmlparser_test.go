package parser

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"newsarchive/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser() *XMLParser {
	return NewXMLParser(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestXMLParser_Parse_Success(t *testing.T) {
	xmlData := `<?xml version="1.0" encoding="UTF-8"?>
	<rss version="2.0">
	<channel>
	<title>Test Feed</title>
	<link>https://example.com</link>
	<item>
	<title>  Tom &amp;amp; Jerry  </title>
	<link> https://example.com/item1 </link>
	<category>Politics</category>
	<pubDate>Thu, 14 Mar 2024 10:05:00 +0200</pubDate>
	</item>
	<item>
	<title>Item 2</title>
	<link>https://example.com/item2</link>
	</item>
	</channel>
	</rss>`

	items, err := newTestParser().Parse(context.Background(), xmlData)

	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "Tom & Jerry", first.Title)
	assert.Equal(t, "https://example.com/item1", first.Link)
	assert.Equal(t, "Politics", first.Category)
	assert.Equal(t, "Thu, 14 Mar 2024 10:05:00 +0200", first.PubDateRaw)
	require.NotNil(t, first.PubDate)
	assert.Equal(t, "2024-03-14T10:05:00+02:00", first.PubDate.ISO)
	assert.True(t, first.PubDate.Parsed.Equal(time.Date(2024, 3, 14, 8, 5, 0, 0, time.UTC)))

	second := items[1]
	assert.Equal(t, "Item 2", second.Title)
	assert.Empty(t, second.Category)
	assert.Empty(t, second.PubDateRaw)
	assert.Nil(t, second.PubDate)
}

func TestXMLParser_Parse_BadDateDoesNotAbort(t *testing.T) {
	xmlData := `<rss><channel>
	<item><title>A</title><link>https://example.com/a</link><pubDate>yesterday-ish</pubDate></item>
	<item><title>B</title><link>https://example.com/b</link><pubDate>Tue, 03 Jan 2006 12:00:00 GMT</pubDate></item>
	</channel></rss>`

	items, err := newTestParser().Parse(context.Background(), xmlData)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "yesterday-ish", items[0].PubDateRaw)
	assert.Nil(t, items[0].PubDate)
	_, ok := items[0].PubDateISO()
	assert.False(t, ok)

	require.NotNil(t, items[1].PubDate)
	assert.Equal(t, "2006-01-03T12:00:00+00:00", items[1].PubDate.ISO)
}

func TestXMLParser_Parse_NamespaceTolerance(t *testing.T) {
	plain := `<rss><channel>
	<item><title>Same</title><link>https://example.com/same</link><category>World</category><pubDate>Thu, 14 Mar 2024 10:05:00 +0200</pubDate></item>
	</channel></rss>`
	prefixed := `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" xmlns:n="urn:news" xmlns:x="urn:x">
	<n:ITEM><x:Title>Same</x:Title><n:link>https://example.com/same</n:link><n:category>World</n:category><x:PubDate>Thu, 14 Mar 2024 10:05:00 +0200</x:PubDate></n:ITEM>
	</rdf:RDF>`

	p := newTestParser()
	want, err := p.Parse(context.Background(), plain)
	require.NoError(t, err)
	got, err := p.Parse(context.Background(), prefixed)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, want, got)
}

func TestXMLParser_Parse_UndeclaredPrefixAndNesting(t *testing.T) {
	xmlData := `<feed><entries><group>
	<media:item><media:title>Deep</media:title><media:link>https://example.com/deep</media:link></media:item>
	</group></entries>
	<item><title>Shallow</title><link>https://example.com/shallow</link></item>
	</feed>`

	items, err := newTestParser().Parse(context.Background(), xmlData)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Deep", items[0].Title)
	assert.Equal(t, "Shallow", items[1].Title)
}

func TestXMLParser_Parse_DoesNotDeduplicate(t *testing.T) {
	xmlData := `<rss><channel>
	<item><link>https://example.com/a</link></item>
	<item><link>https://example.com/a</link></item>
	</channel></rss>`

	items, err := newTestParser().Parse(context.Background(), xmlData)

	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestXMLParser_Parse_HTMLEntitiesAndCharset(t *testing.T) {
	// "Новини" в windows-1251.
	title := string([]byte{0xcd, 0xee, 0xe2, 0xe8, 0xed, 0xe8})
	xmlData := `<?xml version="1.0" encoding="windows-1251"?>
	<rss><channel><item><title>` + title + `&nbsp;</title><link>https://example.com/ua</link></item></channel></rss>`

	items, err := newTestParser().Parse(context.Background(), xmlData)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Новини", items[0].Title)
}

func TestXMLParser_Parse_InvalidXML(t *testing.T) {
	cases := map[string]string{
		"mismatched":    `<rss><channel><title>Test Feed</title><invalid-tag></channel></rss>`,
		"truncated":     `<rss><channel><item><title>x</title>`,
		"empty":         ``,
		"not xml":       `just some text`,
		"trailing junk": `<rss><item><title>a</title></item></rss>trailing junk`,
		"leading junk":  `junk<rss><item><title>a</title></item></rss>`,
	}
	for name, xmlData := range cases {
		t.Run(name, func(t *testing.T) {
			items, err := newTestParser().Parse(context.Background(), xmlData)

			require.Error(t, err)
			assert.Nil(t, items)
			assert.True(t, errors.Is(err, domain.ErrMalformedFeed))
			assert.Contains(t, err.Error(), "failed to decode XML")
		})
	}
}

func TestXMLParser_Parse_WhitespaceAroundRoot(t *testing.T) {
	xmlData := "\n  <rss><item><title>a</title></item></rss>\n\t\n"

	items, err := newTestParser().Parse(context.Background(), xmlData)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].Title)
}

func TestXMLParser_Parse_MixedContentTitle(t *testing.T) {
	xmlData := `<rss><item><title>a <b>b</b> c</title></item></rss>`

	items, err := newTestParser().Parse(context.Background(), xmlData)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a  c", items[0].Title)
}

func TestXMLParser_Parse_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items, err := newTestParser().Parse(ctx, `<rss></rss>`)

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Nil(t, items)
}

func TestXMLParser_Parse_NoItems(t *testing.T) {
	items, err := newTestParser().Parse(context.Background(), `<rss><channel><title>Empty</title></channel></rss>`)

	require.NoError(t, err)
	assert.Empty(t, items)
}
