package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostValidate(t *testing.T) {
	tests := []struct {
		name    string
		post    Post
		wantErr bool
	}{
		{
			name: "valid text post",
			post: Post{SemesterID: "sem-1", Type: PostText, Content: "hello wall"},
		},
		{
			name:    "text post without content",
			post:    Post{SemesterID: "sem-1", Type: PostText},
			wantErr: true,
		},
		{
			name: "image post with inline data",
			post: Post{SemesterID: "sem-1", Type: PostImage, ImageData: "base64payload"},
		},
		{
			name: "image post with url",
			post: Post{SemesterID: "sem-1", Type: PostImage, ImageURL: "https://cdn.example/p.png"},
		},
		{
			name:    "image post with neither source",
			post:    Post{SemesterID: "sem-1", Type: PostImage},
			wantErr: true,
		},
		{
			name: "image post with both sources",
			post: Post{
				SemesterID: "sem-1",
				Type:       PostImage,
				ImageData:  "base64payload",
				ImageURL:   "https://cdn.example/p.png",
			},
			wantErr: true,
		},
		{
			name: "image post over the inline size cap",
			post: Post{
				SemesterID: "sem-1",
				Type:       PostImage,
				ImageData:  strings.Repeat("a", MaxImageBytes+1),
			},
			wantErr: true,
		},
		{
			name: "image post exactly at the inline size cap",
			post: Post{
				SemesterID: "sem-1",
				Type:       PostImage,
				ImageData:  strings.Repeat("a", MaxImageBytes),
			},
		},
		{
			name: "valid event post",
			post: Post{SemesterID: "sem-1", Type: PostEvent, EventTitle: "Exam review", EventDate: "2024-12-01"},
		},
		{
			name:    "event post without date",
			post:    Post{SemesterID: "sem-1", Type: PostEvent, EventTitle: "Exam review"},
			wantErr: true,
		},
		{
			name:    "event post without title",
			post:    Post{SemesterID: "sem-1", Type: PostEvent, EventDate: "2024-12-01"},
			wantErr: true,
		},
		{
			name:    "unknown type",
			post:    Post{SemesterID: "sem-1", Type: "poll", Content: "x"},
			wantErr: true,
		},
		{
			name:    "missing semester id",
			post:    Post{Type: PostText, Content: "hello"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAccessKey(t *testing.T) {
	assert.Equal(t, "sem-1_user-9", AccessKey("sem-1", "user-9"))
}
