package pipeline

import (
	"os"
	"path/filepath"
	"strings"
)

// Layout places the tmp, raw and output folders next to the input folder.
type Layout struct {
	InputDir string
	TmpDir   string
	RawDir   string
	OutDir   string
}

// FilePaths are the per-file artifacts of one station file.
type FilePaths struct {
	Station      string
	Input        string
	Intermediate string
	Raw          string
	Output       string
}

// NewLayout derives sibling folders of inputDir with the given names. The
// siblings live in inputDir/.., so for "." they land in the parent folder and
// never inside the folder that is walked for station files.
func NewLayout(inputDir, tmpName, rawName, outName string) Layout {
	inputDir = filepath.Clean(filepath.FromSlash(strings.ReplaceAll(inputDir, `\`, "/")))
	root := filepath.Join(inputDir, "..")
	return Layout{
		InputDir: inputDir,
		TmpDir:   filepath.Join(root, tmpName),
		RawDir:   filepath.Join(root, rawName),
		OutDir:   filepath.Join(root, outName),
	}
}

// Prepare creates the tmp, raw and output folders.
func (l Layout) Prepare() error {
	for _, dir := range []string{l.TmpDir, l.RawDir, l.OutDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// StationName is the file name up to its first dot, trimmed.
func StationName(fileName string) string {
	name, _, _ := strings.Cut(filepath.Base(fileName), ".")
	return strings.TrimSpace(name)
}

// PathsFor returns the artifact paths for one input file.
func (l Layout) PathsFor(input string) FilePaths {
	station := StationName(input)
	return FilePaths{
		Station:      station,
		Input:        input,
		Intermediate: filepath.Join(l.TmpDir, station+"_tmp.json"),
		Raw:          filepath.Join(l.RawDir, station+"_raw.csv"),
		Output:       filepath.Join(l.OutDir, station+".csv"),
	}
}
