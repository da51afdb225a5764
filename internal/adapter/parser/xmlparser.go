package parser

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"newsarchive/internal/domain"
	"strings"

	"golang.org/x/net/html/charset"
)

// element - узел дерева документа. Хранится только локальное имя тега
// (без префикса пространства имен) и собственный текст узла: в text
// склеиваются все текстовые фрагменты узла, включая идущие после вложенных
// элементов (<title>a <b>b</b> c</title> дает "a  c").
type element struct {
	local    string
	text     strings.Builder
	children []*element
}

// XMLParser извлекает новости из RSS-подобного XML без привязки к пространствам имен.
type XMLParser struct {
	log *slog.Logger
}

func NewXMLParser(log *slog.Logger) *XMLParser {
	return &XMLParser{
		log: log.With(slog.String("component", "parser")),
	}
}

// Parse разбирает документ и возвращает все элементы item в порядке документа.
// Некорректный XML возвращается как domain.ErrMalformedFeed. Нераспознанная дата
// публикации не является ошибкой: у такой новости PubDate остается nil.
func (p *XMLParser) Parse(ctx context.Context, xmlText string) ([]domain.FeedItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := buildTree(strings.NewReader(xmlText))
	if err != nil {
		p.log.Error("Error decoding XML", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to decode XML: %w", domain.ErrMalformedFeed, err)
	}
	var items []domain.FeedItem
	walk(root, func(el *element) {
		if !strings.EqualFold(el.local, "item") {
			return
		}
		items = append(items, p.toItem(el))
	})
	p.log.Debug("Feed parsed", slog.Int("items", len(items)))
	return items, nil
}

func (p *XMLParser) toItem(el *element) domain.FeedItem {
	item := domain.FeedItem{
		Title:      html.UnescapeString(childText(el, "title")),
		Link:       childText(el, "link"),
		Category:   childText(el, "category"),
		PubDateRaw: childText(el, "pubdate"),
	}
	if item.PubDateRaw == "" {
		return item
	}
	if t, ok := ParsePubDate(item.PubDateRaw); ok {
		item.PubDate = domain.NewPubDate(t)
	} else {
		p.log.Warn("could not parse item pubDate",
			slog.String("pubDate", item.PubDateRaw),
			slog.String("link", item.Link),
		)
	}
	return item
}

// buildTree читает весь документ. Декодер работает в строгом режиме, но
// принимает HTML-сущности и объявленные кодировки, отличные от UTF-8.
func buildTree(r io.Reader) (*element, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel
	decoder.Entity = xml.HTMLEntity

	var root *element
	var stack []*element
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{local: t.Name.Local}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			} else if root == nil {
				root = el
			} else {
				return nil, errors.New("multiple root elements")
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			} else if len(bytes.TrimSpace(t)) > 0 {
				return nil, errors.New("text outside of document element")
			}
		}
	}
	if root == nil {
		return nil, errors.New("document has no root element")
	}
	return root, nil
}

// walk обходит дерево в прямом порядке.
func walk(el *element, visit func(*element)) {
	visit(el)
	for _, c := range el.children {
		walk(c, visit)
	}
}

// childText возвращает обрезанный текст первого прямого потомка, чье локальное
// имя оканчивается на name без учета регистра, или "" если такого нет.
func childText(el *element, name string) string {
	for _, c := range el.children {
		if strings.HasSuffix(strings.ToLower(c.local), name) {
			return strings.TrimSpace(c.text.String())
		}
	}
	return ""
}
