package compressor

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrIllegalPath = errors.New("archive entry escapes destination")

// ZipDir zips the contents of srcDir into destZip (including all subdirectories).
// Entry names are relative to srcDir and slash separated.
// example usage:
// err := ZipDir("iris-starter", "dist/iris-starter.zip")
func ZipDir(srcDir, destZip string) (err error) {
	if _, err := os.Stat(srcDir); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(destZip), os.ModePerm); err != nil {
		return err
	}
	zipfile, err := os.Create(destZip)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := zipfile.Close(); err == nil {
			err = cerr
		}
	}()

	archive := zip.NewWriter(zipfile)
	defer func() {
		if cerr := archive.Close(); err == nil {
			err = cerr
		}
	}()

	return filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(relPath)
		if info.IsDir() {
			header.Name += "/"
			_, err := archive.CreateHeader(header)
			return err
		}
		header.Method = zip.Deflate
		w, err := archive.CreateHeader(header)
		if err != nil {
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		_, err = io.Copy(w, file)
		return err
	})
}

// Unzip extracts a zip archive to the specified destination directory.
// example usage:
// err := Unzip("templates.zip", "/tmp/starter-templates")
func Unzip(srcZip, destDir string) error {
	if err := ZipExists(srcZip); err != nil {
		return fmt.Errorf("%s: %w", srcZip, err)
	}
	f, err := os.Open(srcZip)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	return UnzipFromReader(f, info.Size(), destDir)
}

// UnzipFromReader extracts an archive read from ra, which holds size bytes.
func UnzipFromReader(ra io.ReaderAt, size int64, destDir string) error {
	r, err := zip.NewReader(ra, size)
	if err != nil {
		return err
	}
	return extract(r, destDir)
}

func extract(r *zip.Reader, destDir string) error {
	root, err := filepath.Abs(destDir)
	if err != nil {
		return err
	}
	for _, f := range r.File {
		fpath := filepath.Join(root, filepath.FromSlash(f.Name))
		if fpath != root && !strings.HasPrefix(fpath, root+string(os.PathSeparator)) {
			return fmt.Errorf("%w: %s", ErrIllegalPath, f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(fpath, os.ModePerm); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(fpath), os.ModePerm); err != nil {
			return err
		}
		if err := extractFile(f, fpath); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, fpath string) error {
	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	outFile, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		outFile.Close()
		return err
	}
	_, err = io.Copy(outFile, rc)
	rc.Close()
	if cerr := outFile.Close(); err == nil {
		err = cerr
	}
	return err
}

// ZipExists checks that zipLoc exists and starts with the zip magic bytes.
func ZipExists(zipLoc string) error {
	file, err := os.Open(zipLoc)
	if err != nil {
		return err
	}
	defer file.Close()

	header := make([]byte, 2)
	if _, err := io.ReadFull(file, header); err != nil {
		return os.ErrInvalid
	}
	if header[0] != 'P' || header[1] != 'K' {
		return os.ErrInvalid
	}
	return nil
}
