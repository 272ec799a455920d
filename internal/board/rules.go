package board

import (
	"taskflow/internal/models"
)

// Ownership gates. These are UX only: the server independently enforces the
// same policy, and a passing client check can still be rejected remotely
// when local ownership data is stale.

// CanCreateTask reports whether user may create tasks on project.
func CanCreateTask(user models.User, project models.Project) bool {
	return user.ID == project.OwnerID
}

// CanManageTeam reports whether user may edit project's member list.
func CanManageTeam(user models.User, project models.Project) bool {
	return user.ID == project.OwnerID
}

// CanEditComment reports whether user may edit or delete a comment.
func CanEditComment(user models.User, comment models.Comment) bool {
	return user.ID == comment.UserID
}

// Thread is a top-level comment with its direct replies in arrival order.
type Thread struct {
	Comment models.Comment
	Replies []models.Comment
}

// Threads groups a task's comments into two-level threads. Input order is
// preserved both across threads and within replies. A reply whose parent is
// itself a reply is flattened: it joins its parent's top-level thread. A
// reply whose parent is missing entirely is shown as top-level rather than
// dropped.
func Threads(comments []models.Comment) []Thread {
	parentOf := make(map[string]string, len(comments))
	for _, c := range comments {
		parentOf[c.ID] = c.ParentID
	}

	// Resolve each comment to its top-level ancestor; one hop is the
	// common case, deeper chains come from misbehaving data. The hop cap
	// keeps a parent cycle in a malformed payload from spinning forever;
	// a comment stuck in a cycle resolves to no known top-level parent
	// and falls through to orphan promotion below.
	topOf := func(c models.Comment) string {
		id := c.ID
		for hops := 0; hops < len(comments) && parentOf[id] != ""; hops++ {
			next := parentOf[id]
			if _, known := parentOf[next]; !known {
				break
			}
			id = next
		}
		return id
	}

	var threads []Thread
	index := make(map[string]int)

	for _, c := range comments {
		if c.ParentID == "" {
			index[c.ID] = len(threads)
			threads = append(threads, Thread{Comment: c})
		}
	}

	for _, c := range comments {
		if c.ParentID == "" {
			continue
		}
		top := topOf(c)
		if i, ok := index[top]; ok && top != c.ID {
			threads[i].Replies = append(threads[i].Replies, c)
			continue
		}
		// Orphaned reply: parent not in this task's comments.
		index[c.ID] = len(threads)
		threads = append(threads, Thread{Comment: c})
	}

	return threads
}

// ReplyTarget resolves the comment a reply should attach to. Replying to a
// reply targets its top-level parent, keeping threads one level deep. The
// walk is hop-capped so a parent cycle in malformed data falls back to the
// comment itself instead of looping.
func ReplyTarget(comments []models.Comment, commentID string) string {
	byID := make(map[string]models.Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}

	id := commentID
	for hops := 0; hops <= len(comments); hops++ {
		c, ok := byID[id]
		if !ok || c.ParentID == "" {
			return id
		}
		id = c.ParentID
	}
	return commentID
}

// CheckAttachment validates a file payload before upload. Only the size
// limit is enforced; content is opaque to the client.
func CheckAttachment(size int64) bool {
	return size <= models.MaxAttachmentSize
}
