package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/models"
)

func TestUploadFileSizeGate(t *testing.T) {
	requests := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		decoded, err := base64.StdEncoding.DecodeString(body["file_data"])
		require.NoError(t, err)
		json.NewEncoder(w).Encode(models.FileAttachment{
			ID:       "f1",
			TaskID:   body["task_id"],
			Filename: body["filename"],
			Size:     int64(len(decoded)),
		})
	}), "tok")

	// Exactly at the limit is accepted.
	atLimit := bytes.Repeat([]byte{0xAB}, int(models.MaxAttachmentSize))
	file, err := client.UploadFile(context.Background(), "t1", "big.bin", "application/octet-stream", atLimit)
	require.NoError(t, err)
	assert.Equal(t, int64(models.MaxAttachmentSize), file.Size)
	assert.Equal(t, 1, requests)

	// One byte over is rejected before any request exists.
	over := bytes.Repeat([]byte{0xAB}, int(models.MaxAttachmentSize)+1)
	_, err = client.UploadFile(context.Background(), "t1", "too-big.bin", "application/octet-stream", over)
	require.ErrorIs(t, err, ErrFileTooLarge)
	assert.Equal(t, 1, requests)
}

func TestUploadFileEncodesPayload(t *testing.T) {
	payload := []byte("hello attachment")
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		assert.Equal(t, "t1", body["task_id"])
		assert.Equal(t, "notes.txt", body["filename"])
		assert.Equal(t, "text/plain", body["content_type"])
		assert.Equal(t, base64.StdEncoding.EncodeToString(payload), body["file_data"])

		json.NewEncoder(w).Encode(models.FileAttachment{ID: "f1", TaskID: "t1", Filename: "notes.txt"})
	}), "tok")

	file, err := client.UploadFile(context.Background(), "t1", "notes.txt", "text/plain", payload)
	require.NoError(t, err)
	assert.Equal(t, "f1", file.ID)
}
