package ws

// Bundle lifecycle states. Datasets go created → uploading → ready/failed,
// make bundles created → making → ready/failed, and runs walk the full
// created → staged → starting → preparing → running → finalizing chain.
const (
	StateCreated    = "created"
	StateUploading  = "uploading"
	StateMaking     = "making"
	StateStaged     = "staged"
	StateStarting   = "starting"
	StatePreparing  = "preparing"
	StateRunning    = "running"
	StateFinalizing = "finalizing"
	StateReady      = "ready"
	StateFailed     = "failed"
	StateKilled     = "killed"

	// StateWorkerOffline is a transient pseudo-state reported while the
	// assigned worker is unreachable.
	StateWorkerOffline = "worker_offline"
)

const (
	BundleTypeDataset = "dataset"
	BundleTypeMake    = "make"
	BundleTypeRun     = "run"
)

// FinalBundleStates are the terminal states; time fields only render once a
// bundle reaches one of these.
var FinalBundleStates = []string{StateReady, StateFailed, StateKilled}

func IsFinalState(state string) bool {
	for _, s := range FinalBundleStates {
		if s == state {
			return true
		}
	}
	return false
}

// LifecycleStates returns the ordered non-terminal progression for a bundle
// type. The detail panel uses it to show where an in-flight bundle sits.
func LifecycleStates(bundleType string) []string {
	switch bundleType {
	case BundleTypeDataset:
		return []string{StateCreated, StateUploading}
	case BundleTypeMake:
		return []string{StateCreated, StateMaking}
	case BundleTypeRun:
		return []string{StateCreated, StateStaged, StateStarting, StatePreparing, StateRunning, StateFinalizing}
	default:
		return []string{StateCreated}
	}
}

type Dependency struct {
	ParentUUID  string `json:"parent_uuid"`
	ParentName  string `json:"parent_name,omitempty"`
	ParentPath  string `json:"parent_path,omitempty"`
	ChildPath   string `json:"child_path"`
	ParentState string `json:"parent_state,omitempty"`
}

type BundleOwner struct {
	ID       string `json:"id"`
	UserName string `json:"user_name"`
}

type HostWorksheet struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// Bundle is the full metadata view of one bundle as hydrated from the
// bundles endpoint, including the field schema the formatter needs.
type Bundle struct {
	UUID             string            `json:"uuid"`
	ID               string            `json:"id"`
	BundleType       string            `json:"bundle_type"`
	State            string            `json:"state"`
	Command          string            `json:"command,omitempty"`
	Args             string            `json:"args,omitempty"`
	Metadata         map[string]any    `json:"metadata"`
	Dependencies     []Dependency      `json:"dependencies,omitempty"`
	HostWorksheets   []HostWorksheet   `json:"host_worksheets,omitempty"`
	Owner            BundleOwner       `json:"owner"`
	Permission       int               `json:"permission"`
	PermissionSpec   string            `json:"permission_spec,omitempty"`
	GroupPermissions []GroupPermission `json:"group_permissions,omitempty"`

	EditableMetadataFields []string          `json:"editable_metadata_fields,omitempty"`
	MetadataTypes          map[string]string `json:"metadata_types,omitempty"`
	MetadataDescriptions   map[string]string `json:"metadata_descriptions,omitempty"`

	Stores []BundleStore `json:"stores,omitempty"`
}

type BundleStore struct {
	UUID             string `json:"uuid"`
	Name             string `json:"name"`
	StorageType      string `json:"storage_type,omitempty"`
	StorageFormat    string `json:"storage_format,omitempty"`
	BundleStoreUUID  string `json:"bundle_store_uuid,omitempty"`
	IsInitialStorage bool   `json:"is_initial_storage,omitempty"`
}

// ContentsItem is one entry of a bundle's contents tree (depth-1 listing).
type ContentsItem struct {
	Name string `json:"name"`
	Type string `json:"type"` // "file", "directory", or "link"
	Size int64  `json:"size,omitempty"`
	Perm int    `json:"perm,omitempty"`
	Link string `json:"link,omitempty"`
}

// ContentsInfo is the depth-1 info for a path inside a bundle.
type ContentsInfo struct {
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Size     int64          `json:"size,omitempty"`
	Perm     int            `json:"perm,omitempty"`
	Contents []ContentsItem `json:"contents,omitempty"`
}
