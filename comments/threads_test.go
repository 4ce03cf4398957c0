package comments

import (
	"testing"

	"mapmeet/models"
)

func comment(id, content, parentID string) models.Comment {
	return models.Comment{CommentID: id, EventID: "ev1", UserID: "u1", Content: content, ParentID: parentID}
}

func TestBuildThreadsExplicitParent(t *testing.T) {
	threads := BuildThreads([]models.Comment{
		comment("c1", "top level", ""),
		comment("c2", "a reply", "c1"),
		comment("c3", "another top", ""),
	})

	if len(threads) != 2 {
		t.Fatalf("expected 2 threads, got %d", len(threads))
	}
	if threads[0].Parent.CommentID != "c1" || threads[1].Parent.CommentID != "c3" {
		t.Fatalf("parents out of order: %s, %s", threads[0].Parent.CommentID, threads[1].Parent.CommentID)
	}
	if len(threads[0].Replies) != 1 || threads[0].Replies[0].CommentID != "c2" {
		t.Fatalf("c2 should be the only reply under c1")
	}
}

func TestBuildThreadsLegacySentinel(t *testing.T) {
	threads := BuildThreads([]models.Comment{
		comment("p1", "parent text", ""),
		comment("r1", "@reply:p1|hello there", ""),
	})

	if len(threads) != 1 {
		t.Fatalf("expected 1 thread, got %d", len(threads))
	}
	replies := threads[0].Replies
	if len(replies) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(replies))
	}
	if replies[0].Content != "hello there" {
		t.Fatalf("sentinel not stripped: %q", replies[0].Content)
	}
	if replies[0].ParentID != "p1" {
		t.Fatalf("reply should carry resolved parent id, got %q", replies[0].ParentID)
	}
}

func TestBuildThreadsNoSentinelInTopLevel(t *testing.T) {
	threads := BuildThreads([]models.Comment{
		comment("p1", "parent", ""),
		comment("r1", "@reply:p1|first", ""),
		comment("r2", "@reply:missing|orphan", ""),
	})

	for _, th := range threads {
		if len(th.Parent.Content) >= len(replyPrefix) && th.Parent.Content[:len(replyPrefix)] == replyPrefix {
			t.Fatalf("top-level list contains a sentinel comment: %q", th.Parent.Content)
		}
	}
	if len(threads) != 1 || len(threads[0].Replies) != 1 {
		t.Fatalf("orphan should be dropped entirely: %+v", threads)
	}
}

func TestBuildThreadsDropsMalformedSentinel(t *testing.T) {
	threads := BuildThreads([]models.Comment{
		comment("p1", "parent", ""),
		comment("r1", "@reply:dangling", ""),
		comment("r2", "@reply:", ""),
	})

	if len(threads) != 1 || threads[0].Parent.CommentID != "p1" {
		t.Fatalf("malformed sentinels must never reach the top level: %+v", threads)
	}
	if len(threads[0].Replies) != 0 {
		t.Fatalf("malformed sentinels should be dropped, got %+v", threads[0].Replies)
	}
}

func TestBuildThreadsDropsReplyToReply(t *testing.T) {
	threads := BuildThreads([]models.Comment{
		comment("p1", "parent", ""),
		comment("r1", "first reply", "p1"),
		comment("r2", "nested reply", "r1"),
	})

	if len(threads) != 1 {
		t.Fatalf("expected 1 thread, got %d", len(threads))
	}
	if len(threads[0].Replies) != 1 || threads[0].Replies[0].CommentID != "r1" {
		t.Fatalf("nested reply must not appear anywhere: %+v", threads[0].Replies)
	}
}

func TestBuildThreadsPreservesReplyOrder(t *testing.T) {
	threads := BuildThreads([]models.Comment{
		comment("p1", "parent", ""),
		comment("r2", "@reply:p1|second written first", ""),
		comment("r1", "later", "p1"),
	})

	replies := threads[0].Replies
	if len(replies) != 2 || replies[0].CommentID != "r2" || replies[1].CommentID != "r1" {
		t.Fatalf("reply order should follow input order: %+v", replies)
	}
}
