package documents

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// SupportedExtensions расширения документов котировок, которые умеет
// загружать Loader
var SupportedExtensions = []string{".txt", ".md", ".html", ".htm"}

// Document загруженный документ котировки
type Document struct {
	Path  string
	Name  string
	Pages []string
}

// Text весь текст документа одной строкой
func (d *Document) Text() string {
	return strings.Join(d.Pages, "\n\n")
}

// Loader загрузчик документов котировок из текстовых и HTML файлов
type Loader struct{}

// NewLoader создает загрузчик документов
func NewLoader() *Loader {
	return &Loader{}
}

// Load загружает один документ. Формат определяется по расширению файла.
func (l *Loader) Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var pages []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		pages = splitPages(decodeText(data))
	case ".html", ".htm":
		text, err := extractHTMLText(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML document: %w", err)
		}
		pages = []string{text}
	default:
		return nil, fmt.Errorf("unsupported document format: %s", filepath.Ext(path))
	}

	return &Document{
		Path:  path,
		Name:  filepath.Base(path),
		Pages: pages,
	}, nil
}

// LoadMultiple загружает несколько документов
func (l *Loader) LoadMultiple(paths []string) ([]*Document, error) {
	docs := make([]*Document, 0, len(paths))
	for _, path := range paths {
		doc, err := l.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// LoadDir загружает все поддерживаемые документы из каталога
// в алфавитном порядке
func (l *Loader) LoadDir(dir string) ([]*Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isSupported(entry.Name()) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	return l.LoadMultiple(paths)
}

func isSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// splitPages режет текст на страницы по символу перевода страницы.
// Документ без переводов страницы остается одной страницей.
func splitPages(text string) []string {
	parts := strings.Split(text, "\f")
	pages := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			pages = append(pages, trimmed)
		}
	}
	if len(pages) == 0 {
		pages = []string{""}
	}
	return pages
}

// decodeText приводит содержимое файла к UTF-8. Валидный UTF-8
// возвращается как есть, иначе пробуются типичные однобайтовые кодировки.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	for _, cm := range []*charmap.Charmap{charmap.Windows1252, charmap.Windows1251, charmap.ISO8859_1} {
		decoded, _, err := transform.Bytes(cm.NewDecoder(), data)
		if err == nil && utf8.Valid(decoded) {
			return string(decoded)
		}
	}

	// Последний рубеж: выбрасываем невалидные байты
	return strings.ToValidUTF8(string(data), "")
}

// extractHTMLText извлекает видимый текст из HTML документа.
// Кодировка определяется по заголовкам meta, скрипты и стили отбрасываются.
func extractHTMLText(data []byte) (string, error) {
	reader, err := charset.NewReader(bytes.NewReader(data), "text/html")
	if err != nil {
		return "", fmt.Errorf("failed to detect charset: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	var sb strings.Builder
	doc.Find("body").Each(func(i int, s *goquery.Selection) {
		sb.WriteString(s.Text())
	})

	text := sb.String()
	if text == "" {
		text = doc.Text()
	}

	return normalizeWhitespace(text), nil
}

// normalizeWhitespace схлопывает подряд идущие пустые строки и пробелы
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			out = append(out, strings.Join(strings.Fields(trimmed), " "))
		}
	}
	return strings.Join(out, "\n")
}
