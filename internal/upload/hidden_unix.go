//go:build !windows

package upload

// isHidden reports dot files, which folder uploads leave out.
func isHidden(_ string, name string) bool {
	return len(name) > 0 && name[0] == '.'
}
