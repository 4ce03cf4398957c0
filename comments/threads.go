package comments

import (
	"strings"

	"mapmeet/models"
)

// Older clients encoded reply targets inside the comment body as
// "@reply:<parentID>|<text>". New writes carry an explicit parent_id,
// but stored sentinel comments still have to thread correctly.
const replyPrefix = "@reply:"

// Thread pairs a top-level comment with its direct replies.
type Thread struct {
	Parent  models.Comment   `json:"parent"`
	Replies []models.Comment `json:"replies"`
}

// parentRef extracts the reply target of a comment, from the explicit
// field first, then from the legacy sentinel. Empty means top level.
func parentRef(c models.Comment) string {
	if c.ParentID != "" {
		return c.ParentID
	}
	if rest, ok := strings.CutPrefix(c.Content, replyPrefix); ok {
		id, _, _ := strings.Cut(rest, "|")
		if id == "" {
			// Malformed sentinel. Still a reply marker, never a
			// top-level comment; no comment carries this id, so the
			// record drops out as an orphan.
			return replyPrefix
		}
		return id
	}
	return ""
}

// displayBody strips the legacy sentinel so clients only ever see the
// reply text.
func displayBody(c models.Comment) string {
	if rest, ok := strings.CutPrefix(c.Content, replyPrefix); ok {
		if _, body, found := strings.Cut(rest, "|"); found {
			return body
		}
	}
	return c.Content
}

// BuildThreads groups comments into one-level threads, preserving
// input order for both parents and replies. A reply whose target is
// itself a reply, or whose target is missing, is dropped.
func BuildThreads(all []models.Comment) []Thread {
	parentIdx := make(map[string]int, len(all))
	threads := make([]Thread, 0, len(all))

	for _, c := range all {
		if parentRef(c) != "" {
			continue
		}
		parentIdx[c.CommentID] = len(threads)
		threads = append(threads, Thread{Parent: c, Replies: []models.Comment{}})
	}

	for _, c := range all {
		ref := parentRef(c)
		if ref == "" {
			continue
		}
		idx, ok := parentIdx[ref]
		if !ok {
			continue
		}
		reply := c
		reply.Content = displayBody(c)
		reply.ParentID = ref
		threads[idx].Replies = append(threads[idx].Replies, reply)
	}

	return threads
}
