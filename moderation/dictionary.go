package moderation

import (
	"bufio"
	"bytes"
	"embed"
	"io/fs"
	"strings"

	"translate-muc/errors"
)

//go:embed censored/*.txt
var embedded embed.FS

// Dictionary is the merged blacklist, with the language codes of the
// files it came from for logging.
type Dictionary struct {
	Words     []string
	Languages []string
}

// LoadDictionary reads every embedded per-language word list
// ("censored/fr.txt" contributes language "fr") into one deduplicated
// blacklist.
func LoadDictionary() (*Dictionary, error) {
	entries, err := fs.ReadDir(embedded, "censored")
	if err != nil {
		return nil, err
	}

	var languages []string
	unique := make(map[string]struct{})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := embedded.ReadFile("censored/" + entry.Name())
		if err != nil {
			return nil, err
		}

		// Scanner rather than strings.Split to cope with \r\n endings
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				unique[line] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	if len(unique) == 0 {
		return nil, errors.ErrEmptyWords
	}

	words := make([]string, 0, len(unique))
	for w := range unique {
		words = append(words, w)
	}
	return &Dictionary{Words: words, Languages: languages}, nil
}
