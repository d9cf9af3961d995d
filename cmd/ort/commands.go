package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/dustin/go-humanize"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pkg/errors"

	"github.com/ORT-format/ort/ort"
)

// parseInput reads and parses ORT input section by section.
func (e *env) parseInput(path string) (*ort.Document, error) {
	in, err := e.openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	doc, err := ort.NewSectionReader(in, e.parseOptions()).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parse ORT")
	}
	return doc, nil
}

func (e *env) serialize(doc *ort.Document) error {
	text, err := ort.Serialize(doc, e.serializeOptions())
	if err != nil {
		return errors.Wrap(err, "serialize")
	}
	_, err = io.WriteString(e.stdout, text)
	return err
}

// cmdToJSON: ORT -> indented JSON
func (e *env) cmdToJSON(path string) error {
	doc, err := e.parseInput(path)
	if err != nil {
		return err
	}
	out, err := ort.ToJSONIndent(doc.Root, "  ")
	if err != nil {
		return errors.Wrap(err, "encode JSON")
	}
	fmt.Fprintf(e.stdout, "%s\n", out)
	return nil
}

// cmdFromJSON: JSON -> ORT
func (e *env) cmdFromJSON(path string) error {
	data, err := e.readInput(path)
	if err != nil {
		return err
	}
	v, err := ort.FromJSON(data)
	if err != nil {
		return errors.Wrap(err, "parse JSON")
	}
	return e.serialize(ort.NewDocument(v))
}

// cmdToYAML: ORT -> YAML
func (e *env) cmdToYAML(path string) error {
	doc, err := e.parseInput(path)
	if err != nil {
		return err
	}
	out, err := ort.ToYAML(doc.Root)
	if err != nil {
		return errors.Wrap(err, "encode YAML")
	}
	_, err = e.stdout.Write(out)
	return err
}

// cmdFromYAML: YAML -> ORT
func (e *env) cmdFromYAML(path string) error {
	data, err := e.readInput(path)
	if err != nil {
		return err
	}
	v, err := ort.FromYAML(data)
	if err != nil {
		return errors.Wrap(err, "parse YAML")
	}
	return e.serialize(ort.NewDocument(v))
}

// cmdFmt: ORT -> canonical ORT
func (e *env) cmdFmt(path string) error {
	doc, err := e.parseInput(path)
	if err != nil {
		return err
	}
	return e.serialize(doc)
}

// cmdCheck streams the input one section at a time and reports warnings.
func (e *env) cmdCheck(path string) error {
	in, err := e.openInput(path)
	if err != nil {
		return err
	}
	defer in.Close()

	sr := ort.NewSectionReader(in, e.parseOptions())
	sections, rows := 0, 0
	for {
		sec, err := sr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "check")
		}
		sections++
		rows += sec.Rows
	}

	for _, w := range sr.Warnings() {
		fmt.Fprintf(e.stdout, "warning: %s\n", w)
	}
	fmt.Fprintf(e.stdout, "ok: %s sections, %s rows, %d warnings\n",
		humanize.Comma(int64(sections)), humanize.Comma(int64(rows)), len(sr.Warnings()))
	return nil
}

// cmdDump prints the parsed document as a Go value.
func (e *env) cmdDump(path string) error {
	doc, err := e.parseInput(path)
	if err != nil {
		return err
	}
	repr.New(e.stdout, repr.Indent("  ")).Println(doc)
	return nil
}

// cmdGet prints one section of a sections document.
func (e *env) cmdGet(key, path string) error {
	doc, err := e.parseInput(path)
	if err != nil {
		return err
	}
	if doc.Form != ort.FormSections {
		return errors.Errorf("document root is %s, not sections", doc.Form)
	}

	if !doc.Root.Has(key) {
		if near := suggest(key, doc.Root.Keys()); len(near) > 0 {
			return errors.Errorf("no section %q (did you mean %s?)", key, strings.Join(near, ", "))
		}
		return errors.Errorf("no section %q", key)
	}

	sec := &ort.Document{
		Form: ort.FormSections,
		Root: ort.Object(ort.Pair(key, doc.Section(key))),
	}
	return e.serialize(sec)
}

// maxSuggestions bounds the "did you mean" list.
const maxSuggestions = 3

// suggest returns keys close to key: fuzzy subsequence matches first, then
// keys within a small edit distance.
func suggest(key string, keys []string) []string {
	ranks := fuzzy.RankFindFold(key, keys)
	sort.Sort(ranks)

	var out []string
	seen := make(map[string]bool)
	for _, r := range ranks {
		out = append(out, r.Target)
		seen[r.Target] = true
	}

	type near struct {
		key  string
		dist int
	}
	var nearby []near
	for _, k := range keys {
		if seen[k] {
			continue
		}
		if d := fuzzy.LevenshteinDistance(strings.ToLower(key), strings.ToLower(k)); d <= 2 {
			nearby = append(nearby, near{k, d})
		}
	}
	sort.SliceStable(nearby, func(i, j int) bool { return nearby[i].dist < nearby[j].dist })
	for _, c := range nearby {
		out = append(out, c.key)
	}

	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// cmdStats compares the ORT input with its minified JSON form.
func (e *env) cmdStats(path string) error {
	data, err := e.readInput(path)
	if err != nil {
		return err
	}

	sr := ort.NewSectionReaderFromString(string(data), e.parseOptions())
	sections, rows := 0, 0
	for {
		sec, err := sr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "parse ORT")
		}
		sections++
		rows += sec.Rows
	}

	doc, err := ort.ParseWithOptions(string(data), e.parseOptions())
	if err != nil {
		return errors.Wrap(err, "parse ORT")
	}
	canonical, err := ort.Serialize(doc, e.serializeOptions())
	if err != nil {
		return errors.Wrap(err, "serialize")
	}
	js, err := ort.ToJSON(doc.Root)
	if err != nil {
		return errors.Wrap(err, "encode JSON")
	}

	saved := 0.0
	if len(js) > 0 {
		saved = 100 * (1 - float64(len(canonical))/float64(len(js)))
	}

	fmt.Fprintf(e.stdout, "sections:  %s\n", humanize.Comma(int64(sections)))
	fmt.Fprintf(e.stdout, "rows:      %s\n", humanize.Comma(int64(rows)))
	fmt.Fprintf(e.stdout, "input:     %s\n", humanize.Bytes(uint64(len(data))))
	fmt.Fprintf(e.stdout, "canonical: %s\n", humanize.Bytes(uint64(len(canonical))))
	fmt.Fprintf(e.stdout, "json:      %s\n", humanize.Bytes(uint64(len(js))))
	fmt.Fprintf(e.stdout, "saved:     %.1f%%\n", saved)
	return nil
}

// cmdHash prints the document fingerprint.
func (e *env) cmdHash(path string) error {
	doc, err := e.parseInput(path)
	if err != nil {
		return err
	}
	sum, err := ort.Fingerprint(doc)
	if err != nil {
		return errors.Wrap(err, "fingerprint")
	}
	fmt.Fprintln(e.stdout, sum)
	return nil
}
