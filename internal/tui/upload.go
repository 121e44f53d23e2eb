package tui

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"sheets-cli/internal/config"
	"sheets-cli/internal/rest"
	"sheets-cli/internal/ws"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
)

// uploadState drives the two-phase upload flow: pick a file or folder, then
// create a dataset bundle and stream its blob. Progress events flow through a
// channel so the PUT can report from inside its body reader.
type uploadState struct {
	picker   filepicker.Model
	seq      int
	inFlight bool
	name     string
	loaded   int64
	total    int64
	progress chan uploadProgressMsg
}

func newUploadState() uploadState {
	fp := filepicker.New()
	fp.DirAllowed = true
	fp.FileAllowed = true
	if home, err := os.UserHomeDir(); err == nil {
		fp.CurrentDirectory = home
	}
	return uploadState{picker: fp}
}

func pickerHeight(screenH int) int {
	h := screenH - 12
	if h < 8 {
		h = 8
	}
	if h > 20 {
		h = 20
	}
	return h
}

func (m *appModel) openUploadPicker() tea.Cmd {
	m.upload.picker.Height = pickerHeight(m.height)
	m.modal = modalUploadPick
	return m.upload.picker.Init()
}

// uploadStage is a path readied for the blob PUT. cleanup, when set, is a
// temp zip that must be removed whether or not the upload runs.
type uploadStage struct {
	blobPath string
	filename string
	cleanup  string
	size     int64
	unpack   bool
}

func (st uploadStage) discard() {
	if st.cleanup != "" {
		os.Remove(st.cleanup)
	}
}

// stageUpload turns a picked path into an uploadable blob. Folders are zipped
// client-side and unpacked by the server.
func stageUpload(path string, maxFiles int) (uploadStage, error) {
	info, err := os.Stat(path)
	if err != nil {
		return uploadStage{}, err
	}
	filename := filepath.Base(path)

	if !info.IsDir() {
		return uploadStage{
			blobPath: path,
			filename: filename,
			size:     info.Size(),
			unpack:   ws.PathIsArchive(filename),
		}, nil
	}

	zipPath, err := zipFolder(path, maxFiles)
	if err != nil {
		return uploadStage{}, err
	}
	zinfo, err := os.Stat(zipPath)
	if err != nil {
		os.Remove(zipPath)
		return uploadStage{}, err
	}
	return uploadStage{
		blobPath: zipPath,
		filename: filename + ".zip",
		cleanup:  zipPath,
		size:     zinfo.Size(),
		unpack:   true,
	}, nil
}

// startUpload stages the picked path and launches the upload command plus the
// progress listener.
func (m *appModel) startUpload(path string) tea.Cmd {
	stage, err := stageUpload(path, config.FolderUploadMaxFiles)
	if err != nil {
		return m.showSnackbar("Upload failed: " + err.Error())
	}

	if stage.size > m.cfg.UploadLimitBytes() {
		stage.discard()
		return m.showSnackbar(fmt.Sprintf("File exceeds the %dGB upload limit", m.cfg.UploadLimitBytes()>>30))
	}

	m.upload.seq++
	m.upload.inFlight = true
	m.upload.name = stage.filename
	m.upload.loaded = 0
	m.upload.total = stage.size
	m.upload.progress = make(chan uploadProgressMsg, 64)
	m.closeModal()

	name := ws.CreateDefaultBundleName(stage.filename)
	metadata := ws.DefaultBundleMetadata(name)
	after := m.afterSortKeyForFocus()

	seq := m.upload.seq
	ch := m.upload.progress
	gw := m.gw
	wsUUID := m.sheet.UUID

	upload := func() tea.Msg {
		defer close(ch)
		defer stage.discard()
		ctx := context.Background()

		b, err := gw.CreateBundle(ctx, wsUUID, ws.BundleTypeDataset, metadata, rest.CreateBundleOptions{AfterSortKey: after})
		if err != nil {
			return uploadDoneMsg{seq: seq, name: name, err: err}
		}

		f, err := os.Open(stage.blobPath)
		if err != nil {
			return uploadDoneMsg{seq: seq, name: name, err: err}
		}
		defer f.Close()

		err = gw.PutBundleBlob(ctx, b.UUID, f, stage.size, rest.PutBlobOptions{
			Filename: stage.filename,
			Unpack:   stage.unpack,
			Finalize: true,
			Progress: func(loaded, total int64) {
				select {
				case ch <- uploadProgressMsg{seq: seq, loaded: loaded, total: total}:
				default:
				}
			},
		})
		return uploadDoneMsg{seq: seq, name: name, err: err}
	}

	return tea.Batch(upload, waitForUploadProgress(ch))
}

func waitForUploadProgress(ch chan uploadProgressMsg) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return p
	}
}

func (m appModel) onUploadProgress(msg uploadProgressMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.upload.seq || !m.upload.inFlight {
		return m, nil
	}
	m.upload.loaded = msg.loaded
	m.upload.total = msg.total
	return m, waitForUploadProgress(m.upload.progress)
}

func (m appModel) onUploadDone(msg uploadDoneMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.upload.seq {
		return m, nil
	}
	m.upload.inFlight = false
	if msg.err != nil {
		return m, (&m).showSnackbar("Upload failed: " + msg.err.Error())
	}
	m.pendingFocus = m.focusIndex + 1
	return m, tea.Batch(
		(&m).showSnackbar("Uploaded "+msg.name),
		(&m).reloadWorksheet(),
	)
}

// uploadPercent is the floor of the completed fraction, so 100% only shows
// once the last byte went out.
func (u uploadState) percent() int {
	if u.total <= 0 {
		return 0
	}
	return int(u.loaded * 100 / u.total)
}

// zipFolder packs a directory into a temp zip, preserving relative paths.
// maxFiles caps the walk so a mispick of $HOME fails fast instead of zipping
// forever.
func zipFolder(dir string, maxFiles int) (string, error) {
	tmp, err := os.CreateTemp("", "sheets-upload-*.zip")
	if err != nil {
		return "", err
	}
	zw := zip.NewWriter(tmp)

	count := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		count++
		if count > maxFiles {
			return fmt.Errorf("folder has more than %d files", maxFiles)
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})

	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
