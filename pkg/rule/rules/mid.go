package rules

import (
	"strings"

	"github.com/leapstack-labs/tikey/pkg/rule"
	"github.com/leapstack-labs/tikey/pkg/tree"
)

// UnsupportedFunctions are MySQL built-ins TiDB does not implement. The m2
// rule fires on calls to them; the "functions" option replaces the list, or
// extends it when "extend" is true.
var UnsupportedFunctions = []string{
	"load_file",
	"soundex",
	"match",
	"uncompressed_length",
	"validate_password_strength",
	"extractvalue",
	"updatexml",
	"master_pos_wait",
	"source_pos_wait",
	"gtid_subset",
	"gtid_subtract",
	"wait_for_executed_gtid_set",
	"wait_until_sql_thread_after_gtids",
	"json_schema_valid",
	"json_schema_validation_report",
	"statement_digest",
	"statement_digest_text",
}

// Charsets are MySQL character sets TiDB does not accept.
var Charsets = []string{
	"armscii8", "big5", "cp1250", "cp1251", "cp1256", "cp1257", "cp850", "cp852", "cp866",
	"cp932", "dec8", "eucjpms", "euckr", "gb18030", "gb2312", "geostd8", "greek",
	"hp8", "keybcs2", "koi8r", "koi8u", "latin1", "latin2", "latin5", "latin7", "macce",
	"macroman", "sjis", "swe7", "tis620", "ucs2", "ujis", "utf16", "utf16le", "utf32",
	"utf8mb3",
}

// SpatialTypes are the MySQL spatial data types.
var SpatialTypes = []string{
	"geometry", "point", "linestring", "polygon",
	"multipoint", "multilinestring", "multipolygon",
	"geometrycollection", "geomcollection",
}

var mid = []rule.Rule{
	{
		Info: errorInfo("m1", rule.WillSupport, "TiDB not supported FOREIGN KEY constraints",
			"https://github.com/pingcap/tidb/issues/18209"),
		Name:    "foreign-key",
		Group:   GroupMid,
		Trigger: rule.KeyEqual("ForeignKey"),
	},
	{
		Info:       errorInfo("m2", rule.WillSupport, "TiDB not supported mysql functions", ""),
		Name:       "mysql-function",
		Group:      GroupMid,
		Trigger:    functionCall(UnsupportedFunctions),
		ConfigKeys: []string{"functions", "extend"},
		Configure: func(opts map[string]any) (rule.Trigger, error) {
			fns, err := rule.StringSliceOption(opts, "functions", nil)
			if err != nil {
				return rule.Trigger{}, err
			}
			extend, err := rule.BoolOption(opts, "extend", false)
			if err != nil {
				return rule.Trigger{}, err
			}
			if fns == nil || extend {
				fns = append(append([]string{}, UnsupportedFunctions...), fns...)
			}
			return functionCall(fns), nil
		},
	},
	{
		Info: errorInfo("m3", rule.WillSupport,
			"TiDB not supported SPATIAL (also known as GIS/GEOMETRY) functions, data types and indexes",
			"https://github.com/pingcap/tidb/issues/6347"),
		Name:    "spatial",
		Group:   GroupMid,
		Trigger: rule.KeyEqualJudge("DataType", memberIn("value", SpatialTypes)),
	},
	{
		Info:    errorInfo("m4", rule.WillSupport, "TiDB not supported random charset", ""),
		Name:    "charset",
		Group:   GroupMid,
		Trigger: rule.StringElemEqual(Charsets...),
	},
	{
		Info:    errorInfo("m5", rule.WillSupport, "TiDB not supported SYS schema", ""),
		Name:    "sys-schema",
		Group:   GroupMid,
		Trigger: rule.KeyEqualJudge("name", sysSchemaName),
	},
	{
		Info:    errorInfo("m6", rule.WillSupport, "TiDB not supported optimizer trace", ""),
		Name:    "optimizer-trace",
		Group:   GroupMid,
		Trigger: rule.KeyEqualJudge("value", stringIs("optimizer_trace")),
	},
	{
		Info: errorInfo("m7", rule.WillSupport, "TiDB not supported Column-level privileges",
			"https://github.com/pingcap/tidb/issues/9766"),
		Name:    "column-privilege",
		Group:   GroupMid,
		Trigger: rule.KeyEqualJudge("Grant", columnPrivilege),
	},
}

func stringIs(want string) rule.Predicate {
	return func(v tree.Value) bool {
		s, ok := v.AsString()
		return ok && s == want
	}
}

func set(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, s := range items {
		m[s] = true
	}
	return m
}

// memberIn matches objects whose key member is a string in items.
func memberIn(key string, items []string) rule.Predicate {
	want := set(items)
	return func(v tree.Value) bool {
		m, ok := v.Get(key)
		if !ok {
			return false
		}
		s, ok := m.AsString()
		return ok && want[s]
	}
}

// functionCall matches Function nodes whose unqualified name is in names.
// functionCall matches calls to names. Input is lowercased before parsing,
// so names are too.
func functionCall(names []string) rule.Trigger {
	lower := make([]string, len(names))
	for i, n := range names {
		lower[i] = strings.ToLower(n)
	}
	want := set(lower)
	return rule.KeyEqualJudge("Function", func(v tree.Value) bool {
		name, ok := v.Get("name")
		if !ok {
			return false
		}
		parts := name.Items()
		if len(parts) == 0 {
			return false
		}
		last, ok := parts[len(parts)-1].Get("value")
		if !ok {
			return false
		}
		s, ok := last.AsString()
		return ok && want[s]
	})
}

// sysSchemaName matches two-part names qualified by the sys schema.
func sysSchemaName(v tree.Value) bool {
	parts := v.Items()
	if len(parts) != 2 {
		return false
	}
	schema, ok := parts[0].Get("value")
	if !ok {
		return false
	}
	s, ok := schema.AsString()
	return ok && s == "sys"
}

// columnPrivilege matches GRANT statements with a column list on any
// privilege.
func columnPrivilege(v tree.Value) bool {
	privs, ok := v.Get("privileges")
	if !ok {
		return false
	}
	actions, ok := privs.Get("Actions")
	if !ok {
		return false
	}
	for _, action := range actions.Items() {
		for _, m := range action.Members() {
			if cols, ok := m.Value.Get("columns"); ok && !cols.IsNull() {
				return true
			}
		}
	}
	return false
}
