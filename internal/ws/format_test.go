package ws

import (
	"reflect"
	"testing"
)

func TestRenderDuration(t *testing.T) {
	cases := []struct {
		secs float64
		want string
	}{
		{0, ""},
		{100, "1m40s"},
		{10000, "2h46m"},
		{3600, "1h"},
		{3660, "1h1m"},
		{59, "59s"},
		{60, "1m"},
		{86400, "1d"},
		{90061, "1d1h"},
		{2 * 365 * 24 * 3600, "2y"},
	}
	for _, c := range cases {
		if got := RenderDuration(c.secs); got != c.want {
			t.Errorf("RenderDuration(%v) = %q, want %q", c.secs, got, c.want)
		}
	}
}

func TestRenderSize(t *testing.T) {
	cases := []struct {
		size float64
		want string
	}{
		{0, "0"},
		{500, "500"},
		{1024, "1.0k"},
		{50000, "48.8k"},
		{150000, "146k"},
		{5 << 20, "5.0m"},
		{3 << 30, "3.0g"},
	}
	for _, c := range cases {
		if got := RenderSize(c.size); got != c.want {
			t.Errorf("RenderSize(%v) = %q, want %q", c.size, got, c.want)
		}
	}
}

func TestRenderFormatList(t *testing.T) {
	if got := RenderFormat([]any{"a", "b", "c"}, "list"); got != "a b c" {
		t.Fatalf("list render = %q", got)
	}
	if got := RenderFormat([]string{"x", "y"}, "list"); got != "x y" {
		t.Fatalf("list render = %q", got)
	}
}

func TestRenderFormatBool(t *testing.T) {
	if got := RenderFormat(true, "bool"); got != "true" {
		t.Fatalf("bool render = %q", got)
	}
	if got := RenderFormat(float64(0), "bool"); got != "false" {
		t.Fatalf("bool render = %q", got)
	}
}

func TestSerializeFormatRoundTrips(t *testing.T) {
	t.Run("bool", func(t *testing.T) {
		for _, v := range []bool{true, false} {
			got, err := SerializeFormat(RenderFormat(v, "bool"), "bool")
			if err != nil {
				t.Fatalf("bool round trip: %v", err)
			}
			if got != v {
				t.Fatalf("bool round trip: got %v want %v", got, v)
			}
		}
	})
	t.Run("int", func(t *testing.T) {
		got, err := SerializeFormat(RenderFormat(float64(42), "int"), "int")
		if err != nil {
			t.Fatalf("int round trip: %v", err)
		}
		if got != int64(42) {
			t.Fatalf("int round trip: got %v", got)
		}
	})
	t.Run("float", func(t *testing.T) {
		got, err := SerializeFormat(RenderFormat(2.5, "float"), "float")
		if err != nil {
			t.Fatalf("float round trip: %v", err)
		}
		if got != 2.5 {
			t.Fatalf("float round trip: got %v", got)
		}
	})
	t.Run("list", func(t *testing.T) {
		in := []string{"alpha", "beta", "gamma"}
		got, err := SerializeFormat(RenderFormat(in, "list"), "list")
		if err != nil {
			t.Fatalf("list round trip: %v", err)
		}
		if !reflect.DeepEqual(got, in) {
			t.Fatalf("list round trip: got %v want %v", got, in)
		}
	})
}

func TestSerializeFormatListSeparators(t *testing.T) {
	got, err := SerializeFormat("a,b|c d", "list")
	if err != nil {
		t.Fatalf("list parse: %v", err)
	}
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("list parse: got %v want %v", got, want)
	}
}

func TestSerializeFormatBoolAcceptsInt(t *testing.T) {
	got, err := SerializeFormat("2", "bool")
	if err != nil {
		t.Fatalf("bool parse: %v", err)
	}
	if got != true {
		t.Fatalf("nonzero int should parse as true, got %v", got)
	}
	if _, err := SerializeFormat("maybe", "bool"); err == nil {
		t.Fatal("expected error for invalid bool")
	}
}

func TestFormatBundle(t *testing.T) {
	b := &Bundle{
		UUID:       "0x1234",
		BundleType: BundleTypeRun,
		State:      StateReady,
		Metadata: map[string]any{
			"name": "train-model",
			"time": float64(100),
		},
		Owner:                  BundleOwner{ID: "7", UserName: "ana"},
		Permission:             2,
		EditableMetadataFields: []string{"name", "description"},
		MetadataTypes:          map[string]string{"time": "duration", "name": "str", "description": "str"},
		MetadataDescriptions: map[string]string{
			"name":        "Bundle name",
			"description": "Bundle description",
			"time":        "Wall time",
		},
	}

	fields := FormatBundle(b)

	if got := fields["time"].Value; got != "1m40s" {
		t.Errorf("time rendered as %q", got)
	}
	if !fields["name"].Editable {
		t.Error("name should be editable at permission 2")
	}
	if fields["time"].Editable {
		t.Error("time should not be editable")
	}
	// Described-but-missing fields still get an entry.
	d, ok := fields["description"]
	if !ok {
		t.Fatal("description entry missing")
	}
	if d.Value != "" {
		t.Errorf("missing field rendered as %q", d.Value)
	}
	if !d.Editable {
		t.Error("description should be editable even when unset")
	}
	if fields["owner"].Value != "ana" {
		t.Errorf("owner = %q", fields["owner"].Value)
	}
	if fields["name"].BundleUUID != "0x1234" {
		t.Errorf("bundle uuid = %q", fields["name"].BundleUUID)
	}
}

func TestFormatBundleReadOnlyPermission(t *testing.T) {
	b := &Bundle{
		UUID:                   "0x9",
		Metadata:               map[string]any{"name": "d"},
		Permission:             1,
		EditableMetadataFields: []string{"name"},
	}
	if FormatBundle(b)["name"].Editable {
		t.Fatal("permission 1 must not yield editable fields")
	}
}

func TestRenderDate(t *testing.T) {
	// Zero stays empty rather than rendering the epoch.
	if got := RenderDate(nil); got != "" {
		t.Fatalf("nil date = %q", got)
	}
	got := RenderDate(float64(1700000000))
	if len(got) == 0 {
		t.Fatal("timestamp rendered empty")
	}
	// Layout check without pinning a zone: "Www Mmm dd yyyy HH:MM:SS".
	if len(got) != len("Mon Jan 02 2006 15:04:05") {
		t.Fatalf("unexpected date layout: %q", got)
	}
}
