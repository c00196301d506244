package outline

import "github.com/arjunmahishi/symtree/lang"

// LanguageInfo describes a registered language and its tree layout.
type LanguageInfo struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
	Separator  string   `json:"separator"`
	FullScope  bool     `json:"full_scope"`
	Categories []string `json:"categories"`
}

// Languages lists the registered languages by name.
func Languages() []LanguageInfo {
	var out []LanguageInfo
	for _, name := range lang.List() {
		l := lang.Get(name)
		layout := l.Layout()
		info := LanguageInfo{
			Name:       name,
			Extensions: l.Extensions(),
			Separator:  layout.Separator,
			FullScope:  layout.FullScope,
		}
		for _, g := range layout.Groups {
			info.Categories = append(info.Categories, g.Name)
		}
		out = append(out, info)
	}
	return out
}
