// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package attrs

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"

	"github.com/staranto/pumlcache/internal/config"
)

// LocalFormat is the layout used by the t transform.
const LocalFormat = "2006-01-02T15:04:05MST"

var lengthRe = regexp.MustCompile(`-?\d+`)

// Attr represents each of the keys to be included in the output. These are
// the keys of a listed row, thus the name.
type Attr struct {
	// The key to extract from each row.
	Key string
	// Should this Attr be included in output or is it just
	// intended for filtering and sorting?
	Include bool
	// The key to use in the output. This is also the column title when
	// output=text.
	OutputKey string
	// Transformation spec to apply to the output value.
	TransformSpec string
}

// Transform applies the TransformSpec to value. Numeric values only honor the
// h transform; everything else works on strings.
func (a *Attr) Transform(value interface{}) interface{} {

	// Byte counts read better humanized.
	if strings.Contains(a.TransformSpec, "h") {
		if n, ok := toUint64(value); ok {
			value = humanize.IBytes(n)
		}
	}

	result, ok := value.(string)
	if !ok {
		return value
	}

	// Relative time, e.g. "3 hours ago".
	if strings.Contains(a.TransformSpec, "r") {
		if t, err := time.Parse(time.RFC3339Nano, result); err == nil {
			result = humanize.Time(t)
		}
	}

	// Convert UTC time to local.
	if strings.ContainsAny(a.TransformSpec, "tT") {
		if t, err := time.Parse(time.RFC3339Nano, result); err == nil {
			result = t.In(location()).Format(LocalFormat)
		} else {
			log.Debugf("not a timestamp, leaving as is: %s", result)
		}
	}

	// We need to know which case transformation appears last. This covers the
	// case where there has been a global case transformation prepended to the
	// attrs transformation and, thus, allows the attr's to carry more weight.
	// IOW...  --attrs '*::U,key::l' will be lower case.
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")

	if lastL > lastU {
		result = strings.ToLower(result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
	}

	// Is it a length-based transformation? The last match overrides a global
	// one.
	if match := lengthRe.FindAllString(a.TransformSpec, -1); len(match) != 0 {
		l, _ := strconv.Atoi(match[len(match)-1])
		abs := int(math.Abs(float64(l)))
		if len(result) > abs {
			if l < 0 {
				lr := max(abs/2-1, 0)
				result = result[0:lr] + ".." + result[len(result)-lr:]
			} else {
				result = result[:l]
			}
		}
	}

	return result
}

// location resolves the zone for the t transform: the timezone config key,
// then TZ, then the system zone.
func location() *time.Location {
	tz, _ := config.GetString("timezone", "")
	if tz == "" {
		tz = os.Getenv("TZ")
	}
	if tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.WithError(err).Warnf("unknown timezone %s", tz)
		return time.Local
	}
	return loc
}

func toUint64(v interface{}) (uint64, bool) {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case uint64:
		return n, true
	default:
		return 0, false
	}
}

type AttrList []Attr

// String renders the list in the same key:title:transform form that --attrs
// accepts.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Parse each spec from the --attrs flag and add it to the AttrList.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	const (
		keyIdx = iota
		outputIdx
		transformIdx
	)

	// There are three : delimited fields in each spec. The first is the row
	// key. The second is the key to use in the output. The third is the
	// transformation spec to apply to the output value. The latter two are
	// optional.
	specs := strings.Split(value, ",")
specloop:
	for _, spec := range specs {
		attr := Attr{
			Include: true,
		}

		fields := strings.Split(spec, ":")

		// If the key begins with a !, it is excluded from the output but can
		// still be filtered and sorted on.
		attr.Key = strings.TrimPrefix(strings.TrimSpace(fields[keyIdx]), ".")
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			return fmt.Errorf("invalid attrs spec: %q", spec)
		}

		if attr.Key == "*" {
			attr.Include = false
		}

		if len(fields) == 1 || fields[outputIdx] == "" {
			attr.OutputKey = attr.Key
		} else {
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		}

		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}

		// If the attr already exists in the list (because it's one of the defaults
		// for cmd or the user double-entered it) just apply the OutputKey, Include
		// and TransformSpec to the existing Attr.
		for i := range *a {
			if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key {
				(*a)[i].Include = attr.Include
				(*a)[i].OutputKey = attr.OutputKey
				(*a)[i].TransformSpec = attr.TransformSpec
				continue specloop
			}
		}

		*a = append(*a, attr)
	}

	return nil
}

// SetGlobalTransformSpec inserts a global transform spec into the front of all
// attrs in the list.
func (alist *AttrList) SetGlobalTransformSpec() error {
	spec := ""

	// Find the global transform spec. If there is more than one, we're not
	// dealing with it and just taking the first.
	for a := range *alist {
		if (*alist)[a].Key == "*" {
			spec = (*alist)[a].TransformSpec
			break
		}
	}

	if spec == "" {
		return nil
	}

	for a := range *alist {
		(*alist)[a].TransformSpec = spec + "," + (*alist)[a].TransformSpec
	}

	return nil
}

func (a *AttrList) Type() string {
	return "list"
}
