package views

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow/internal/api"
	"taskflow/internal/board"
	"taskflow/internal/dispatch"
	"taskflow/internal/models"
	"taskflow/internal/session"
	"taskflow/internal/ui/keys"
	"taskflow/internal/ui/styles"
)

// fileReadMsg carries a file read from disk, before the upload size check.
type fileReadMsg struct {
	filename    string
	contentType string
	data        []byte
	err         error
}

type detailMode int

const (
	modeBrowse detailMode = iota
	modeCompose // writing a new comment or reply
	modeEditComment
	modeAttach
	modeConfirmComment // deleting a comment
	modeConfirmFile    // deleting a file
)

// TaskDetailView shows one task with its comment thread and attachments.
type TaskDetailView struct {
	dispatch *dispatch.Dispatcher
	session  *session.Store
	task     models.Task
	styles   *styles.Styles
	keys     keys.KeyMap

	width  int
	height int

	mode    detailMode
	errMsg  string
	okMsg   string
	cursor  int // index into flattened comment rows
	fileSel int

	filePane bool // focus on attachments instead of comments

	composer textarea.Model
	replyTo  string // comment id being replied to, "" for top-level
	editing  string // comment id being edited

	pathInput textinput.Model
}

// NewTaskDetailView creates the detail view for one task.
func NewTaskDetailView(d *dispatch.Dispatcher, sess *session.Store, task models.Task) *TaskDetailView {
	composer := textarea.New()
	composer.Placeholder = "Write a comment..."
	composer.SetHeight(4)
	composer.CharLimit = 1000

	pathInput := textinput.New()
	pathInput.Placeholder = "/path/to/file"
	pathInput.CharLimit = 250

	return &TaskDetailView{
		dispatch:  d,
		session:   sess,
		task:      task,
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		composer:  composer,
		pathInput: pathInput,
	}
}

func (v *TaskDetailView) Init() tea.Cmd {
	return tea.Batch(
		v.dispatch.RefreshComments(v.task.ID),
		v.dispatch.RefreshFiles(v.task.ID),
	)
}

// commentRow pairs a comment with its indent level for cursor math.
type commentRow struct {
	comment models.Comment
	reply   bool
}

func (v *TaskDetailView) rows() []commentRow {
	threads := board.Threads(v.dispatch.Comments.Items())
	var rows []commentRow
	for _, t := range threads {
		rows = append(rows, commentRow{comment: t.Comment})
		for _, r := range t.Replies {
			rows = append(rows, commentRow{comment: r, reply: true})
		}
	}
	return rows
}

func (v *TaskDetailView) selectedComment() (models.Comment, bool) {
	rows := v.rows()
	if len(rows) == 0 || v.cursor >= len(rows) {
		return models.Comment{}, false
	}
	return rows[v.cursor].comment, true
}

func (v *TaskDetailView) selectedFile() (models.FileAttachment, bool) {
	files := v.dispatch.Files.Items()
	if len(files) == 0 || v.fileSel >= len(files) {
		return models.FileAttachment{}, false
	}
	return files[v.fileSel], true
}

func (v *TaskDetailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.composer.SetWidth(clamp(styles.ContentWidth(msg.Width)-8, 20, 70))
		return v, nil

	case ThemeChanged:
		v.styles = styles.NewStyles()
		return v, nil

	case dispatch.CommentsRefreshedMsg:
		if msg.Err != nil {
			v.errMsg = "Could not load comments: " + api.Reason(msg.Err)
		}
		v.clampCursors()
		return v, nil

	case dispatch.FilesRefreshedMsg:
		if msg.Err != nil {
			v.errMsg = "Could not load attachments: " + api.Reason(msg.Err)
		}
		v.clampCursors()
		return v, nil

	case dispatch.CommentCreatedMsg:
		if msg.Err != nil {
			v.errMsg = "Could not post comment: " + api.Reason(msg.Err)
			return v, nil
		}
		v.mode = modeBrowse
		v.clampCursors()
		return v, nil

	case dispatch.CommentUpdatedMsg:
		if msg.Err != nil {
			v.errMsg = "Could not update comment: " + api.Reason(msg.Err)
			return v, nil
		}
		v.mode = modeBrowse
		return v, nil

	case dispatch.CommentDeletedMsg:
		if msg.Err != nil {
			v.errMsg = "Could not delete comment: " + api.Reason(msg.Err)
		}
		v.clampCursors()
		return v, nil

	case dispatch.FileUploadedMsg:
		if msg.Err != nil {
			v.errMsg = "Upload failed: " + api.Reason(msg.Err)
			return v, nil
		}
		v.okMsg = "Uploaded " + msg.File.Filename
		v.mode = modeBrowse
		return v, nil

	case dispatch.FileDeletedMsg:
		if msg.Err != nil {
			v.errMsg = "Could not delete attachment: " + api.Reason(msg.Err)
		}
		v.clampCursors()
		return v, nil

	case fileReadMsg:
		if msg.err != nil {
			v.errMsg = "Could not read file: " + msg.err.Error()
			return v, nil
		}
		cmd, err := v.dispatch.UploadFile(v.task.ID, msg.filename, msg.contentType, msg.data)
		if err != nil {
			v.errMsg = api.Reason(err)
			return v, nil
		}
		v.errMsg = ""
		return v, cmd

	case tea.KeyMsg:
		switch v.mode {
		case modeCompose, modeEditComment:
			return v.updateComposing(msg)
		case modeAttach:
			return v.updateAttaching(msg)
		case modeConfirmComment, modeConfirmFile:
			return v.updateConfirming(msg)
		default:
			return v.updateBrowsing(msg)
		}
	}

	return v, nil
}

func (v *TaskDetailView) clampCursors() {
	if n := len(v.rows()); n == 0 {
		v.cursor = 0
	} else {
		v.cursor = clamp(v.cursor, 0, n-1)
	}
	if n := v.dispatch.Files.Len(); n == 0 {
		v.fileSel = 0
	} else {
		v.fileSel = clamp(v.fileSel, 0, n-1)
	}
}

func (v *TaskDetailView) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return CloseOverlay{} }

	case key.Matches(msg, v.keys.Tab):
		v.filePane = !v.filePane
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.filePane {
			v.fileSel = clamp(v.fileSel-1, 0, max(v.dispatch.Files.Len()-1, 0))
		} else {
			v.cursor = clamp(v.cursor-1, 0, max(len(v.rows())-1, 0))
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.filePane {
			v.fileSel = clamp(v.fileSel+1, 0, max(v.dispatch.Files.Len()-1, 0))
		} else {
			v.cursor = clamp(v.cursor+1, 0, max(len(v.rows())-1, 0))
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startCompose("")
		return v, textarea.Blink

	case key.Matches(msg, v.keys.Reply):
		if c, ok := v.selectedComment(); ok && !v.filePane {
			v.startCompose(c.ID)
			return v, textarea.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit):
		if c, ok := v.selectedComment(); ok && !v.filePane {
			user, _ := v.session.Current()
			if !board.CanEditComment(user, c) {
				v.errMsg = "You can only edit your own comments"
				return v, nil
			}
			v.mode = modeEditComment
			v.editing = c.ID
			v.errMsg = ""
			v.okMsg = ""
			v.composer.Reset()
			v.composer.SetValue(c.Content)
			v.composer.Focus()
			return v, textarea.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if v.filePane {
			if _, ok := v.selectedFile(); ok {
				v.mode = modeConfirmFile
			}
		} else if c, ok := v.selectedComment(); ok {
			user, _ := v.session.Current()
			if !board.CanEditComment(user, c) {
				v.errMsg = "You can only delete your own comments"
				return v, nil
			}
			v.mode = modeConfirmComment
		}
		return v, nil

	case key.Matches(msg, v.keys.Attach):
		v.mode = modeAttach
		v.errMsg = ""
		v.okMsg = ""
		v.pathInput.Reset()
		v.pathInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Refresh):
		v.errMsg = ""
		return v, tea.Batch(
			v.dispatch.RefreshComments(v.task.ID),
			v.dispatch.RefreshFiles(v.task.ID),
		)
	}

	return v, nil
}

func (v *TaskDetailView) startCompose(replyTo string) {
	v.mode = modeCompose
	v.replyTo = replyTo
	v.errMsg = ""
	v.okMsg = ""
	v.composer.Reset()
	v.composer.Focus()
}

func (v *TaskDetailView) updateComposing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeBrowse
		v.composer.Blur()
		return v, nil

	case msg.String() == "ctrl+s":
		content := strings.TrimSpace(v.composer.Value())
		if content == "" {
			v.errMsg = "Comment cannot be empty"
			return v, nil
		}
		v.composer.Blur()
		if v.mode == modeEditComment {
			c, ok := v.dispatch.Comments.Get(v.editing)
			if !ok {
				v.mode = modeBrowse
				return v, nil
			}
			user, _ := v.session.Current()
			cmd, err := v.dispatch.UpdateComment(user, c, content)
			if err != nil {
				v.errMsg = api.Reason(err)
				return v, nil
			}
			return v, cmd
		}
		return v, v.dispatch.CreateComment(v.task.ID, content, v.replyTo)
	}

	var cmd tea.Cmd
	v.composer, cmd = v.composer.Update(msg)
	return v, cmd
}

func (v *TaskDetailView) updateAttaching(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeBrowse
		v.pathInput.Blur()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		path := strings.TrimSpace(v.pathInput.Value())
		if path == "" {
			v.errMsg = "Enter a file path"
			return v, nil
		}
		v.pathInput.Blur()
		return v, readFileCmd(path)
	}

	var cmd tea.Cmd
	v.pathInput, cmd = v.pathInput.Update(msg)
	return v, cmd
}

func readFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return fileReadMsg{err: err}
		}
		name := filepath.Base(path)
		ctype := mime.TypeByExtension(filepath.Ext(name))
		if ctype == "" {
			ctype = "application/octet-stream"
		}
		return fileReadMsg{filename: name, contentType: ctype, data: data}
	}
}

func (v *TaskDetailView) updateConfirming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mode := v.mode
	v.mode = modeBrowse
	if s := msg.String(); s != "y" && s != "Y" {
		return v, nil
	}
	if mode == modeConfirmFile {
		if f, ok := v.selectedFile(); ok {
			return v, v.dispatch.DeleteFile(f.ID)
		}
		return v, nil
	}
	if c, ok := v.selectedComment(); ok {
		user, _ := v.session.Current()
		cmd, err := v.dispatch.DeleteComment(user, c)
		if err != nil {
			v.errMsg = api.Reason(err)
			return v, nil
		}
		return v, cmd
	}
	return v, nil
}

// View renders the view
func (v *TaskDetailView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var b strings.Builder

	b.WriteString(s.TitleBar.Width(contentWidth).Render(s.Title.Render(v.task.Title)))
	b.WriteString("\n")

	if v.task.Description != "" {
		b.WriteString(s.TitleMuted.Render(v.task.Description))
		b.WriteString("\n")
	}
	meta := "Status: " + v.task.Status
	if v.task.DueDate != nil {
		meta += " • Due " + v.task.DueDate.Format("Jan 2, 2006")
	}
	b.WriteString(s.Badge.Render(meta))
	b.WriteString("\n\n")

	if v.errMsg != "" {
		b.WriteString(s.ErrorBanner.Render(v.errMsg))
		b.WriteString("\n")
	}
	if v.okMsg != "" {
		b.WriteString(s.Success.Render(v.okMsg))
		b.WriteString("\n")
	}

	switch v.mode {
	case modeCompose, modeEditComment:
		label := "New comment"
		if v.mode == modeEditComment {
			label = "Edit comment"
		} else if v.replyTo != "" {
			label = "Reply"
		}
		b.WriteString(s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
			label+":",
			v.composer.View(),
			s.TitleMuted.Render("Ctrl+S: post • Esc: cancel"),
		)))
	case modeAttach:
		b.WriteString(s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
			"Attach file (max 10 MiB):",
			s.InputFocused.Width(clamp(contentWidth-8, 20, 60)).Render(v.pathInput.View()),
			s.TitleMuted.Render("Enter: upload • Esc: cancel"),
		)))
	default:
		b.WriteString(v.renderComments(contentWidth))
		b.WriteString("\n")
		b.WriteString(v.renderFiles(contentWidth))
		if v.mode == modeConfirmComment {
			b.WriteString("\n")
			b.WriteString(s.ErrorBanner.Render("Delete this comment? (y/n)"))
		}
		if v.mode == modeConfirmFile {
			b.WriteString("\n")
			b.WriteString(s.ErrorBanner.Render("Delete this attachment? (y/n)"))
		}
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskDetailView) renderComments(width int) string {
	s := v.styles
	rows := v.rows()

	header := "Comments"
	if !v.filePane {
		header += " ◆"
	}
	lines := []string{s.ColumnHeader.Render(fmt.Sprintf("%s (%d)", header, len(rows)))}

	if len(rows) == 0 {
		lines = append(lines, s.TitleMuted.Render("No comments yet. Press 'n' to add one."))
	}

	for i, row := range rows {
		style := s.ListItem
		if !v.filePane && i == v.cursor {
			style = s.ListSelected
		}
		indent := ""
		if row.reply {
			indent = "  ↳ "
		}
		author := row.comment.UserName
		if author == "" {
			author = row.comment.UserID
		}
		stamp := row.comment.CreatedAt.Format("Jan 2 15:04")
		if !row.comment.UpdatedAt.IsZero() && row.comment.UpdatedAt.After(row.comment.CreatedAt) {
			stamp += " (edited)"
		}
		head := fmt.Sprintf("%s%s • %s", indent, author, stamp)
		lines = append(lines,
			style.Width(width-6).Render(head),
			style.Width(width-6).Render(indent+row.comment.Content),
		)
	}

	return s.Panel.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (v *TaskDetailView) renderFiles(width int) string {
	s := v.styles
	files := v.dispatch.Files.Items()

	header := "Attachments"
	if v.filePane {
		header += " ◆"
	}
	lines := []string{s.ColumnHeader.Render(fmt.Sprintf("%s (%d)", header, len(files)))}

	if len(files) == 0 {
		lines = append(lines, s.TitleMuted.Render("No attachments. Press 'a' to upload."))
	}

	for i, f := range files {
		style := s.ListItem
		if v.filePane && i == v.fileSel {
			style = s.ListSelected
		}
		lines = append(lines, style.Width(width-6).Render(
			fmt.Sprintf("%s (%s)", f.Filename, humanSize(f.Size)),
		))
	}

	return s.Panel.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func (v *TaskDetailView) renderHelp() string {
	s := v.styles
	return s.Help.Render(
		fmt.Sprintf("%s switch pane • %s comment • %s reply • %s edit • %s delete • %s attach • %s refresh • %s back",
			s.HelpKey.Render("tab"),
			s.HelpKey.Render("n"),
			s.HelpKey.Render("r"),
			s.HelpKey.Render("e"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("a"),
			s.HelpKey.Render("R"),
			s.HelpKey.Render("esc"),
		),
	)
}
