package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/aluiziolira/go-scrape-catalog/config"
)

// prompter drives the interactive category and page selection.
type prompter struct {
	in  *bufio.Reader
	out io.Writer

	heading *color.Color
	option  *color.Color
	notice  *color.Color
}

func newPrompter(in *bufio.Reader, out io.Writer) *prompter {
	return &prompter{
		in:      in,
		out:     out,
		heading: color.New(color.FgCyan, color.Bold),
		option:  color.New(color.FgGreen),
		notice:  color.New(color.FgYellow),
	}
}

// ChooseCategory lists the categories plus "all" and returns the chosen key. Unknown choices
// are asked again.
func (p *prompter) ChooseCategory(categories []config.Category) (string, error) {
	p.heading.Fprintln(p.out, "Select a category:")
	for i, cat := range categories {
		p.option.Fprintf(p.out, "  %d. ", i+1)
		fmt.Fprintln(p.out, cat.Name)
	}
	allChoice := len(categories) + 1
	p.option.Fprintf(p.out, "  %d. ", allChoice)
	fmt.Fprintln(p.out, "All categories")

	for {
		fmt.Fprint(p.out, "Enter the category number: ")
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		choice, convErr := strconv.Atoi(line)
		switch {
		case convErr == nil && choice >= 1 && choice <= len(categories):
			return categories[choice-1].Key, nil
		case convErr == nil && choice == allChoice:
			return config.AllCategoriesKey, nil
		}
		p.notice.Fprintln(p.out, "Invalid choice, please try again.")
	}
}

// ShowCheckpoint prints where the previous run stopped for category.
func (p *prompter) ShowCheckpoint(categoryURL string, last int, ok bool) {
	if !ok {
		p.notice.Fprintf(p.out, "No pages parsed yet for %s\n", categoryURL)
		return
	}
	p.notice.Fprintf(p.out, "Last parsed page for %s: %d\n", categoryURL, last)
}

// AskPages reads a page range such as "1-5" or "3".
func (p *prompter) AskPages() (string, error) {
	fmt.Fprint(p.out, "Enter the page range (e.g. 1-5) or a single page: ")
	return p.readLine()
}

func (p *prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
