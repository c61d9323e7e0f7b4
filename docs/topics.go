// Package docs holds the documentation topics displayed by the topic command.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

//go:embed *.md
var pages embed.FS

// Topic is a documentation page.
type Topic struct {
	Name  string // used on the command line
	Title string // first heading of the page
}

// Topics returns the available topics sorted by name.
func Topics() ([]Topic, error) {
	files, err := fs.Glob(pages, "*.md")
	if err != nil {
		return nil, err
	}
	topics := make([]Topic, 0, len(files))
	for _, file := range files {
		content, err := pages.ReadFile(file)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(file, ".md")
		title, _, _ := strings.Cut(string(content), "\n")
		title, found := strings.CutPrefix(title, "# ")
		if !found {
			title = name
		}
		topics = append(topics, Topic{Name: name, Title: title})
	}
	slices.SortFunc(topics, func(a, b Topic) int { return strings.Compare(a.Name, b.Name) })
	return topics, nil
}

// Names returns the names of the available topics.
func Names() []string {
	topics, _ := Topics()
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = t.Name
	}
	return names
}

// Get returns the content of the named topics separated by a blank line, "*"
// stands for every topic.
func Get(names ...string) (string, error) {
	var b strings.Builder
	for _, name := range names {
		if name == "*" {
			all, err := Get(Names()...)
			if err != nil {
				return "", err
			}
			b.WriteString(all)
			continue
		}
		content, err := pages.ReadFile(name + ".md")
		if err != nil {
			return "", fmt.Errorf("topic %q not found, see stk topic", name)
		}
		b.Write(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Index returns the markdown list of the available topics.
func Index() (string, error) {
	topics, err := Topics()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("# Topics\n\nRun `stk topic <name>` to display a topic, `stk topic '*'` displays them all.\n\n")
	for _, t := range topics {
		fmt.Fprintf(&b, "* %s: %s\n", t.Name, t.Title)
	}
	return b.String(), nil
}
