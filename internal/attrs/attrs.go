// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/csvcmp/csvcmp/internal/log"
)

// globalKey marks the spec entry whose transform applies to every column.
const globalKey = "*"

var lengthRegex = regexp.MustCompile(`-?\d+`)

// Attr is one output column: which record key to read, what to title it and
// how to transform its cells.
type Attr struct {
	// Key is the record column to read.
	Key string `yaml:"key" json:"Key"`
	// Include is false for columns that are only hidden placeholders.
	Include bool `yaml:"include" json:"Include"`
	// OutputKey is the column title in text output and the key in json/yaml.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// TransformSpec is applied to each cell value.
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// Transform applies the attribute's transform spec to a cell value.
//
//	t  RFC3339 timestamp to local time
//	T  RFC3339 timestamp to relative time ("3 days ago")
//	u  upper case, l lower case (last one wins)
//	N  truncate to N characters, -N elide the middle to N characters
func (a *Attr) Transform(value string) string {
	spec := a.TransformSpec
	if spec == "" {
		return value
	}
	result := value

	if strings.ContainsAny(spec, "tT") {
		if ts, err := time.Parse(time.RFC3339, result); err == nil {
			local := ts.In(time.Local)
			if strings.Contains(spec, "T") {
				result = humanize.Time(local)
			} else {
				result = local.Format("2006-01-02T15:04:05MST")
			}
			log.Tracef("time: result=%s", result)
		}
	}

	// Case letters may appear in both the global and the column spec; the
	// later one, which is the column's, wins.
	lastL := strings.LastIndexAny(spec, "lL")
	lastU := strings.LastIndexAny(spec, "uU")
	if lastL > lastU {
		result = strings.ToLower(result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
	}

	if match := lengthRegex.FindAllString(spec, -1); len(match) != 0 {
		l, _ := strconv.Atoi(match[len(match)-1])
		abs := l
		if abs < 0 {
			abs = -abs
		}
		runes := []rune(result)
		if len(runes) > abs {
			if l < 0 {
				side := abs/2 - 1
				if side < 1 {
					side = 1
				}
				result = string(runes[:side]) + ".." + string(runes[len(runes)-side:])
			} else {
				result = string(runes[:abs])
			}
			log.Tracef("length: result=%s", result)
		}
	}

	return result
}

// AttrList is the ordered set of output columns.
type AttrList []Attr

// FromColumns returns one included, untransformed Attr per column.
func FromColumns(columns []string) AttrList {
	list := make(AttrList, 0, len(columns))
	for _, c := range columns {
		list = append(list, Attr{Key: c, Include: true, OutputKey: c})
	}
	return list
}

// Set parses a --columns spec and applies it to the list. Each comma separated
// entry is key[:title[:transform]]. A leading ! hides the column, and the
// key * carries a transform for every column. Entries for keys already in
// the list update them in place; others are appended.
func (a *AttrList) Set(value string) error {
	if value == "" || value == globalKey {
		return nil
	}

	const (
		keyIdx = iota
		outputIdx
		transformIdx
	)

specloop:
	for _, spec := range strings.Split(value, ",") {
		if strings.TrimSpace(spec) == "" {
			continue
		}
		fields := strings.Split(spec, ":")
		if len(fields) > transformIdx+1 {
			return fmt.Errorf("invalid column spec %q (want key[:title[:transform]])", spec)
		}

		attr := Attr{Include: true}
		attr.Key = strings.TrimSpace(fields[keyIdx])
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			return fmt.Errorf("invalid column spec %q: empty key", spec)
		}
		if attr.Key == globalKey {
			attr.Include = false
		}

		attr.OutputKey = attr.Key
		if len(fields) > outputIdx && strings.TrimSpace(fields[outputIdx]) != "" {
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		}
		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}
		log.Tracef("column parsed: %+v", attr)

		for i := range *a {
			if (*a)[i].Key == attr.Key {
				(*a)[i] = attr
				continue specloop
			}
		}
		*a = append(*a, attr)
	}

	return nil
}

// SetGlobalTransformSpec prefixes every column's transform with the transform
// of the * entry, if there is one.
func (a *AttrList) SetGlobalTransformSpec() {
	spec := ""
	for _, attr := range *a {
		if attr.Key == globalKey {
			spec = attr.TransformSpec
			break
		}
	}
	if spec == "" {
		return
	}

	for i := range *a {
		if (*a)[i].Key == globalKey {
			continue
		}
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}
}

// Included returns the visible columns in order.
func (a AttrList) Included() AttrList {
	out := make(AttrList, 0, len(a))
	for _, attr := range a {
		if attr.Include {
			out = append(out, attr)
		}
	}
	return out
}

// Titles returns the output keys of the visible columns.
func (a AttrList) Titles() []string {
	inc := a.Included()
	titles := make([]string, len(inc))
	for i, attr := range inc {
		titles[i] = attr.OutputKey
	}
	return titles
}

// String renders the list in --columns syntax.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		key := attr.Key
		if !attr.Include && key != globalKey {
			key = "!" + key
		}
		result = append(result, fmt.Sprintf("%s:%s:%s", key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}
