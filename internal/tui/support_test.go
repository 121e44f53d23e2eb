package tui

import (
	"context"
	"errors"
	"io"
	"sync"

	"sheets-cli/internal/config"
	"sheets-cli/internal/rest"
	"sheets-cli/internal/ws"
)

// fakeGateway is an in-memory Gateway with canned responses and recorded
// requests. Commands returned by the model are executed synchronously in
// tests, so a plain mutex is enough.
type fakeGateway struct {
	mu sync.Mutex

	worksheet    *ws.Worksheet
	worksheetErr error

	interpreted  map[string][]ws.Block
	interpretErr error

	tableRows []map[string]any

	commandResult *rest.CommandResult
	commandErr    error

	searchRefs []rest.WorksheetRef

	bundle   *ws.Bundle
	contents map[string]*ws.ContentsInfo

	// Recorded requests.
	addItemsReqs []rest.AddItemsRequest
	commands     []string
	createdMeta  []map[string]any
	createdOpts  []rest.CreateBundleOptions
	putBlobs     []rest.PutBlobOptions
	contentsReqs []string
}

func (f *fakeGateway) FetchWorksheet(ctx context.Context, uuid string, bundleUUIDs []string) (*ws.Worksheet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.worksheetErr != nil {
		return nil, f.worksheetErr
	}
	return f.worksheet, nil
}

func (f *fakeGateway) AddItems(ctx context.Context, worksheetUUID string, req rest.AddItemsRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addItemsReqs = append(f.addItemsReqs, req)
	return nil
}

func (f *fakeGateway) NewWorksheet(ctx context.Context, name string) (string, error) {
	return "0xnew", nil
}

func (f *fakeGateway) SearchWorksheets(ctx context.Context, keywords []string) ([]rest.WorksheetRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchRefs, nil
}

func (f *fakeGateway) FetchInterpretedBlock(ctx context.Context, worksheetUUID, directive string) ([]ws.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.interpretErr != nil {
		return nil, f.interpretErr
	}
	return f.interpreted[directive], nil
}

func (f *fakeGateway) FetchAsyncTableContents(ctx context.Context, worksheetUUID string, contents []map[string]any) ([]map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tableRows, nil
}

func (f *fakeGateway) ExecuteCommand(ctx context.Context, worksheetUUID, command string) (*rest.CommandResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, command)
	if f.commandErr != nil {
		return nil, f.commandErr
	}
	if f.commandResult != nil {
		return f.commandResult, nil
	}
	return &rest.CommandResult{}, nil
}

func (f *fakeGateway) FetchBundleMetadata(ctx context.Context, uuid string) (*ws.Bundle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bundle, nil
}

func (f *fakeGateway) FetchBundleContents(ctx context.Context, uuid, path string) (*ws.ContentsInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contentsReqs = append(f.contentsReqs, uuid+":"+path)
	return f.contents[uuid], nil
}

func (f *fakeGateway) FetchFileSummary(ctx context.Context, uuid, path string) (string, error) {
	return "", nil
}

func (f *fakeGateway) FetchBundleStores(ctx context.Context, uuid string) ([]ws.BundleStore, error) {
	return nil, nil
}

func (f *fakeGateway) CreateBundle(ctx context.Context, worksheetUUID string, bundleType string, metadata map[string]any, opts rest.CreateBundleOptions) (*ws.Bundle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdMeta = append(f.createdMeta, metadata)
	f.createdOpts = append(f.createdOpts, opts)
	return &ws.Bundle{UUID: "0xcreated", BundleType: bundleType, Metadata: metadata}, nil
}

func (f *fakeGateway) UpdateBundleMetadata(ctx context.Context, uuid string, fields map[string]any) error {
	return nil
}

func (f *fakeGateway) PutBundleBlob(ctx context.Context, uuid string, body io.Reader, size int64, opts rest.PutBlobOptions) error {
	f.mu.Lock()
	f.putBlobs = append(f.putBlobs, opts)
	f.mu.Unlock()
	_, err := io.Copy(io.Discard, body)
	return err
}

func (f *fakeGateway) FetchUser(ctx context.Context) (*rest.User, error) {
	return &rest.User{ID: "u1", UserName: "tester"}, nil
}

var errTest = errors.New("server said no")

func key(v float64) *float64 { return &v }

func markupBlock(text string, ids []int, keys ...*float64) ws.Block {
	return ws.Block{
		Mode:     ws.ModeMarkup,
		SortKeys: keys,
		IDs:      ids,
		Markup:   &ws.MarkupBlock{Text: text},
	}
}

func tableBlockRows(n int, status string, keys ...*float64) ws.Block {
	rows := make([]map[string]any, n)
	infos := make([]ws.BundleInfo, n)
	ids := make([]int, n)
	for i := range rows {
		uuid := "0xbundle" + string(rune('a'+i))
		rows[i] = map[string]any{"name": "b" + string(rune('a'+i)), "uuid": uuid}
		infos[i] = ws.BundleInfo{
			UUID:     uuid,
			State:    "ready",
			Metadata: map[string]any{"name": "b" + string(rune('a'+i))},
		}
		ids[i] = 100 + i
	}
	return ws.Block{
		Mode:     ws.ModeTable,
		SortKeys: keys,
		IDs:      ids,
		Table: &ws.TableBlock{
			Header:      []string{"name", "uuid"},
			Rows:        rows,
			BundlesSpec: ws.BundlesSpec{BundleInfos: infos},
			Status:      ws.BlockStatus{Code: status},
		},
	}
}

func placeholderBlock(directive string, keys ...*float64) ws.Block {
	return ws.Block{
		Mode:        ws.ModePlaceholder,
		SortKeys:    keys,
		Placeholder: &ws.PlaceholderBlock{Directive: directive},
	}
}

func sheetWith(blocks ...ws.Block) *ws.Worksheet {
	return &ws.Worksheet{
		UUID:           "0xws",
		Name:           "main",
		EditPermission: true,
		Blocks:         blocks,
	}
}

// loadedModel builds a model that already received a worksheet snapshot, the
// way Update would leave it after the initial fetch.
func loadedModel(gw *fakeGateway, sheet *ws.Worksheet) appModel {
	m := newAppModel(config.Config{Worksheet: "0xws"}, gw, "0xws")
	mAny, _ := m.Update(worksheetMsg{seq: m.wsSeq, ws: sheet})
	return mAny.(appModel)
}
