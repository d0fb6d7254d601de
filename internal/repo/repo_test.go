package repo

import (
	"testing"
)

func TestSetLocalFactsTwicePanics(t *testing.T) {
	r := New("demo", "main", "/tmp/demo", nil)
	r.SetLocalFacts(LocalFacts{HasCommits: true})

	defer func() {
		if recover() == nil {
			t.Error("second SetLocalFacts should panic")
		}
	}()
	r.SetLocalFacts(LocalFacts{HasCommits: true})
}

func TestSetRemoteFactsTwicePanics(t *testing.T) {
	r := New("demo", "main", "/tmp/demo", nil)
	r.SetRemoteFacts(RemoteFacts{HasUpstream: false})

	defer func() {
		if recover() == nil {
			t.Error("second SetRemoteFacts should panic")
		}
	}()
	r.SetRemoteFacts(RemoteFacts{HasUpstream: false})
}

func TestLocalDirty(t *testing.T) {
	tests := []struct {
		name  string
		facts *LocalFacts
		want  bool
	}{
		{"no facts yet", nil, false},
		{"no commits", &LocalFacts{HasCommits: false, HasUntrackedFiles: true}, false},
		{"clean", &LocalFacts{HasCommits: true}, false},
		{"untracked", &LocalFacts{HasCommits: true, HasUntrackedFiles: true}, true},
		{"new files", &LocalFacts{HasCommits: true, HasNewFiles: true}, true},
		{"unstaged", &LocalFacts{HasCommits: true, HasUnstagedModifications: true}, true},
		{"staged", &LocalFacts{HasCommits: true, HasStagedModifications: true}, true},
		{"renamed", &LocalFacts{HasCommits: true, HasRenamedFiles: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New("demo", "main", "/tmp/demo", nil)
			if tt.facts != nil {
				r.SetLocalFacts(*tt.facts)
			}
			if got := r.LocalDirty(); got != tt.want {
				t.Errorf("LocalDirty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemoteDirty(t *testing.T) {
	tests := []struct {
		name  string
		facts *RemoteFacts
		want  bool
	}{
		{"no facts yet", nil, false},
		{"no upstream", &RemoteFacts{HasUpstream: false}, false},
		{"clean", &RemoteFacts{HasUpstream: true}, false},
		{"unpulled", &RemoteFacts{HasUpstream: true, HasUnpulledCommits: true}, true},
		{"unpushed", &RemoteFacts{HasUpstream: true, HasUnpushedCommits: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New("demo", "main", "/tmp/demo", nil)
			if tt.facts != nil {
				r.SetRemoteFacts(*tt.facts)
			}
			if got := r.RemoteDirty(); got != tt.want {
				t.Errorf("RemoteDirty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrackingBranch(t *testing.T) {
	r := New("demo", "main", "/tmp/demo", nil)
	if got := r.TrackingBranch(); got != "" {
		t.Errorf("TrackingBranch() before phase 2 = %q, want empty", got)
	}

	r.SetRemoteFacts(RemoteFacts{HasUpstream: true, RemoteName: "origin", RemoteBranch: "main"})
	if got := r.TrackingBranch(); got != "origin/main" {
		t.Errorf("TrackingBranch() = %q, want %q", got, "origin/main")
	}
}

func TestTrackingBranchNoUpstream(t *testing.T) {
	r := New("demo", "main", "/tmp/demo", nil)
	r.SetRemoteFacts(RemoteFacts{HasUpstream: false})
	if got := r.TrackingBranch(); got != "" {
		t.Errorf("TrackingBranch() = %q, want empty", got)
	}
}

func TestDetached(t *testing.T) {
	if New("demo", "main", "/tmp/demo", nil).Detached() {
		t.Error("repo on a branch should not be detached")
	}
	if !New("demo", DetachedBranchLabel, "/tmp/demo", nil).Detached() {
		t.Error("repo with the detached label should be detached")
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   LocalFacts
	}{
		{"empty", "", LocalFacts{}},
		{"untracked", "?? notes.txt", LocalFacts{HasUntrackedFiles: true}},
		{"staged new file", "A  new.go", LocalFacts{HasNewFiles: true}},
		{"unstaged modification", " M main.go", LocalFacts{HasUnstagedModifications: true}},
		{"staged modification", "M  main.go", LocalFacts{HasStagedModifications: true}},
		{"renamed", "R  old.go -> new.go", LocalFacts{HasRenamedFiles: true}},
		{
			"staged and unstaged same file",
			"MM main.go",
			LocalFacts{HasUnstagedModifications: true, HasStagedModifications: true},
		},
		{
			"mixed",
			"?? a.txt\nA  b.go\n M c.go",
			LocalFacts{HasUntrackedFiles: true, HasNewFiles: true, HasUnstagedModifications: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseStatus(tt.status); got != tt.want {
				t.Errorf("ParseStatus(%q) = %+v, want %+v", tt.status, got, tt.want)
			}
		})
	}
}
