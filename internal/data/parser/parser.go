package parser

import (
	"fmt"
	"os"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-chatlens/internal/core/model"
	"github.com/penwyp/go-chatlens/internal/util"
)

// Parser decodes export files. Each file is a JSON array of messages.
type Parser struct {
	mu    sync.Mutex
	cache map[string][]model.RawMessage
}

// ParseResult represents the result of parsing a single file.
type ParseResult struct {
	File     string
	Messages []model.RawMessage
	Error    error
}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	return &Parser{
		cache: make(map[string][]model.RawMessage),
	}
}

// ParseBytes decodes the content of one export file. name is only used in errors.
func (p *Parser) ParseBytes(name string, data []byte) ([]model.RawMessage, error) {
	var msgs []model.RawMessage
	if err := sonic.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return msgs, nil
}

// ParseFile parses the export file at the specified path. Results are
// cached per path for the lifetime of the parser.
func (p *Parser) ParseFile(filepath string) ([]model.RawMessage, error) {
	p.mu.Lock()
	if cached, ok := p.cache[filepath]; ok {
		p.mu.Unlock()
		return cached, nil
	}
	p.mu.Unlock()

	util.LogDebug(fmt.Sprintf("Start parsing file: %s", filepath))

	data, err := os.ReadFile(filepath)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Failed to open file: %s - %v", filepath, err))
		return nil, err
	}

	msgs, err := p.ParseBytes(filepath, data)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[filepath] = msgs
	p.mu.Unlock()

	return msgs, nil
}

// ParseFiles parses the files in order and returns one result per file.
func (p *Parser) ParseFiles(files []string) []ParseResult {
	results := make([]ParseResult, 0, len(files))
	for _, f := range files {
		msgs, err := p.ParseFile(f)
		if err != nil {
			util.LogDebug(fmt.Sprintf("File parsing failed: %s - %v", f, err))
		}
		results = append(results, ParseResult{File: f, Messages: msgs, Error: err})
	}
	return results
}
