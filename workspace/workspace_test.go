package workspace

import "testing"

func TestParseBuildURL(t *testing.T) {
	cfg := ParseBuildURL("https://builds.example.com/builds/user42/proj7/task9/dist/index.html")

	if !cfg.Valid {
		t.Fatalf("expected a valid build config")
	}
	if cfg.UserID != "user42" || cfg.ProjectID != "proj7" || cfg.TaskID != "task9" {
		t.Fatalf("ids parsed wrong: %+v", cfg)
	}
	if cfg.WorkspaceID != "proj7-task9" {
		t.Fatalf("workspace id should join project and task ids, got %s", cfg.WorkspaceID)
	}
	if cfg.UploadFolder != "resources" {
		t.Fatalf("upload folder should be resources, got %s", cfg.UploadFolder)
	}
	if cfg.BaseURL != "https://builds.example.com" {
		t.Fatalf("base url parsed wrong: %s", cfg.BaseURL)
	}
}

func TestParseBuildURLNoContext(t *testing.T) {
	for _, raw := range []string{
		"",
		"https://example.com/",
		"https://example.com/builds/only/two/dist",
		"ftp://example.com/builds/a/b/c/dist",
	} {
		cfg := ParseBuildURL(raw)
		if cfg.Valid {
			t.Fatalf("%q should not produce a build context", raw)
		}
		if cfg != (Config{}) {
			t.Fatalf("%q should yield a zero config, got %+v", raw, cfg)
		}
	}
}
