package kvfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mdk.options")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		policy   KeyPolicy
		wantKeys []string
		want     map[string]string
	}{
		{
			name:     "simple pairs",
			content:  "version=1.1.0\nminify=yes\n",
			wantKeys: []string{"version", "minify"},
			want:     map[string]string{"version": "1.1.0", "minify": "yes"},
		},
		{
			name:     "whitespace is trimmed around key and value",
			content:  "  gamebinpath =  C:\\Games\\SE\\Bin64  \n",
			wantKeys: []string{"gamebinpath"},
			want:     map[string]string{"gamebinpath": "C:\\Games\\SE\\Bin64"},
		},
		{
			name:     "split on first equals only",
			content:  "expr=a=b=c",
			wantKeys: []string{"expr"},
			want:     map[string]string{"expr": "a=b=c"},
		},
		{
			name:     "line without equals becomes key with empty value",
			content:  "  lonely  \n",
			wantKeys: []string{"lonely"},
			want:     map[string]string{"lonely": ""},
		},
		{
			name:     "blank lines are ignored anywhere",
			content:  "\n   \n\ta=1\n\n \t \nb=2\n\n\n",
			wantKeys: []string{"a", "b"},
			want:     map[string]string{"a": "1", "b": "2"},
		},
		{
			name:     "crlf line endings",
			content:  "a=1\r\nb=2\r\n",
			wantKeys: []string{"a", "b"},
			want:     map[string]string{"a": "1", "b": "2"},
		},
		{
			name:     "last duplicate wins",
			content:  "a=1\nb=2\na=3",
			wantKeys: []string{"a", "b"},
			want:     map[string]string{"a": "3", "b": "2"},
		},
		{
			name:     "case sensitive by default",
			content:  "Key=1\nkey=2",
			wantKeys: []string{"Key", "key"},
			want:     map[string]string{"Key": "1", "key": "2"},
		},
		{
			name:     "ignore case policy merges keys",
			content:  "Key=1\nKEY=2",
			policy:   IgnoreCase,
			wantKeys: []string{"Key"},
			want:     map[string]string{"Key": "2"},
		},
		{
			name:     "byte order mark is dropped",
			content:  "\ufeffa=1",
			wantKeys: []string{"a"},
			want:     map[string]string{"a": "1"},
		},
		{
			name:     "empty file",
			content:  "",
			wantKeys: nil,
			want:     map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Load(writeFile(t, tt.content), tt.policy)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got := d.Keys(); !reflect.DeepEqual(got, tt.wantKeys) {
				t.Errorf("Keys() = %v, want %v", got, tt.wantKeys)
			}
			if got := d.Map(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Map() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.options"), nil)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) {
		t.Errorf("expected *fs.PathError to propagate unmodified, got %T", err)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.options")
	if err := os.WriteFile(path, []byte("stale=content\nthat=is\nlonger=than\nnew=one"), 0644); err != nil {
		t.Fatal(err)
	}

	d := New(nil)
	d.Set("version", "1.1.0")
	d.Set("minify", "no")
	if err := Save(path, d); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "version=1.1.0" + newline + "minify=no"
	if string(data) != want {
		t.Errorf("file content = %q, want %q", string(data), want)
	}
}

func TestSave_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.options")
	err := Save(path, New(nil))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Save() error = %v, want fs.ErrNotExist", err)
	}
}

func TestDictionary_Delete(t *testing.T) {
	d := New(IgnoreCase)
	d.Set("a", "1")
	d.Set("B", "2")
	d.Set("c", "3")

	if !d.Delete("b") {
		t.Fatal("Delete(b) = false, want true")
	}
	if d.Delete("b") {
		t.Error("second Delete(b) = true, want false")
	}
	if got := d.Keys(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("Keys() = %v", got)
	}
	if v, ok := d.Get("C"); !ok || v != "3" {
		t.Errorf("Get(C) = %q, %v", v, ok)
	}
}

func TestFromMap_SortsKeys(t *testing.T) {
	d := FromMap(map[string]string{"b": "2", "a": "1", "c": "3"}, nil)
	if got := Format(d); got != strings.Join([]string{"a=1", "b=2", "c=3"}, newline) {
		t.Errorf("Format() = %q", got)
	}
}

func TestProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("save then load round-trips", prop.ForAll(
		func(m map[string]string) bool {
			path := filepath.Join(t.TempDir(), "roundtrip.options")
			if err := Save(path, FromMap(m, nil)); err != nil {
				return false
			}
			d, err := Load(path, nil)
			if err != nil {
				return false
			}
			return reflect.DeepEqual(d.Map(), m)
		},
		gen.MapOf(gen.Identifier(), gen.AlphaString()),
	))

	properties.Property("parsed entries match trimmed pairs with last occurrence winning", prop.ForAll(
		func(keys []string, values []string) bool {
			n := len(keys)
			if len(values) < n {
				n = len(values)
			}
			var lines []string
			want := map[string]string{}
			for i := 0; i < n; i++ {
				lines = append(lines, "  "+keys[i]+" = "+values[i]+"\t")
				want[keys[i]] = values[i]
			}
			return reflect.DeepEqual(Parse(strings.Join(lines, "\n"), nil).Map(), want)
		},
		gen.SliceOf(gen.OneConstOf("a", "b", "c", "version", "minify")),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("blank lines never change the result", prop.ForAll(
		func(padding []string) bool {
			base := "a=1\nb=2"
			padded := strings.Join(padding, "\n") + "\n" + "a=1\n" + strings.Join(padding, "\n") + "\nb=2\n" + strings.Join(padding, "\n")
			return reflect.DeepEqual(Parse(base, nil).Map(), Parse(padded, nil).Map())
		},
		gen.SliceOf(gen.OneConstOf("", " ", "\t", "  \t ")),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
