package tui

import (
	"context"
	"io"

	"sheets-cli/internal/rest"
	"sheets-cli/internal/ws"
)

// Gateway is the slice of the REST client the TUI talks to. Update handlers
// only ever reach the server through this interface, which keeps the whole
// model drivable from tests with a fake.
type Gateway interface {
	FetchWorksheet(ctx context.Context, uuid string, bundleUUIDs []string) (*ws.Worksheet, error)
	AddItems(ctx context.Context, worksheetUUID string, req rest.AddItemsRequest) error
	NewWorksheet(ctx context.Context, name string) (string, error)
	SearchWorksheets(ctx context.Context, keywords []string) ([]rest.WorksheetRef, error)

	FetchInterpretedBlock(ctx context.Context, worksheetUUID, directive string) ([]ws.Block, error)
	FetchAsyncTableContents(ctx context.Context, worksheetUUID string, contents []map[string]any) ([]map[string]any, error)
	ExecuteCommand(ctx context.Context, worksheetUUID, command string) (*rest.CommandResult, error)

	FetchBundleMetadata(ctx context.Context, uuid string) (*ws.Bundle, error)
	FetchBundleContents(ctx context.Context, uuid, path string) (*ws.ContentsInfo, error)
	FetchFileSummary(ctx context.Context, uuid, path string) (string, error)
	FetchBundleStores(ctx context.Context, uuid string) ([]ws.BundleStore, error)
	CreateBundle(ctx context.Context, worksheetUUID string, bundleType string, metadata map[string]any, opts rest.CreateBundleOptions) (*ws.Bundle, error)
	UpdateBundleMetadata(ctx context.Context, uuid string, fields map[string]any) error
	PutBundleBlob(ctx context.Context, uuid string, body io.Reader, size int64, opts rest.PutBlobOptions) error

	FetchUser(ctx context.Context) (*rest.User, error)
}

var _ Gateway = (*rest.Client)(nil)
