package search

import fsutil "github.com/kk-code-lab/rfiles/internal/fs"

// TypePresets are the single-type filters offered by the type picker, in
// cycling order. The first entry passes everything.
func TypePresets() []TypeFilter {
	presets := []TypeFilter{All()}
	for _, ft := range fsutil.AllFileTypes() {
		presets = append(presets, OnlyTypes(ft.String(), ft))
	}
	return presets
}

// ContentPresets group file types into coarse content categories.
func ContentPresets() []TypeFilter {
	return []TypeFilter{
		All(),
		OnlyTypes("documents",
			fsutil.FileTypeDocument,
			fsutil.FileTypePDF,
			fsutil.FileTypeWord,
			fsutil.FileTypeExcel,
			fsutil.FileTypePowerPoint,
		),
		OnlyTypes("media", fsutil.FileTypeImage, fsutil.FileTypeVideo),
		OnlyTypes("other", fsutil.FileTypeOther),
	}
}

// NextPreset returns the preset following current in presets, wrapping
// around. Unknown filters restart at the first preset.
func NextPreset(presets []TypeFilter, current TypeFilter) TypeFilter {
	if len(presets) == 0 {
		return All()
	}
	for i, p := range presets {
		if p.Name() == current.Name() {
			return presets[(i+1)%len(presets)]
		}
	}
	return presets[0]
}

// PresetByName looks a filter up by its Name.
func PresetByName(presets []TypeFilter, name string) (TypeFilter, bool) {
	for _, p := range presets {
		if p.Name() == name {
			return p, true
		}
	}
	return All(), false
}
