package uploads

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playautopublish/console-backend/internal/projects/domain"
	"github.com/playautopublish/console-backend/internal/state"
)

func header(name, contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: name,
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": {contentType}},
	}
}

func newIntake(t *testing.T) (*Intake, *state.Store) {
	t.Helper()
	store := state.NewStore()
	require.NoError(t, store.AddProject(domain.Project{
		ID:     "p1",
		Name:   "TaskMaster Pro",
		Status: domain.StatusDraft,
		Track:  domain.TrackInternal,
	}))
	return NewIntake(store), store
}

func TestIntake_Attach(t *testing.T) {
	in, store := newIntake(t)

	t.Run("aab keeps the first file", func(t *testing.T) {
		files := []*multipart.FileHeader{
			header("app-release.aab", "application/octet-stream", 4096),
			header("ignored.aab", "application/octet-stream", 2048),
		}
		p, err := in.Attach("p1", domain.PurposeAAB, files)
		require.NoError(t, err)
		require.NotNil(t, p.AABFile)
		assert.Equal(t, "app-release.aab", p.AABFile.FileName)
		assert.Equal(t, int64(4096), p.AABFile.Size)
		assert.Equal(t, domain.PurposeAAB, p.AABFile.Purpose)
		assert.NotEmpty(t, p.AABFile.ID)
	})

	t.Run("icon lands under assets", func(t *testing.T) {
		p, err := in.Attach("p1", domain.PurposeIcon, []*multipart.FileHeader{
			header("icon.png", "image/png", 512),
		})
		require.NoError(t, err)
		require.NotNil(t, p.Assets.Icon)
		assert.Equal(t, "icon.png", p.Assets.Icon.FileName)
		assert.Equal(t, "image/png", p.Assets.Icon.ContentType)
	})

	t.Run("screenshots replace the prior set", func(t *testing.T) {
		_, err := in.Attach("p1", domain.PurposeScreenshots, []*multipart.FileHeader{
			header("old-1.png", "image/png", 100),
			header("old-2.png", "image/png", 100),
		})
		require.NoError(t, err)

		p, err := in.Attach("p1", domain.PurposeScreenshots, []*multipart.FileHeader{
			header("new-1.png", "image/png", 200),
		})
		require.NoError(t, err)
		require.Len(t, p.Assets.Screenshots, 1)
		assert.Equal(t, "new-1.png", p.Assets.Screenshots[0].FileName)
	})

	t.Run("attach bumps last_updated", func(t *testing.T) {
		before, err := store.Project("p1")
		require.NoError(t, err)
		p, err := in.Attach("p1", domain.PurposeFeatureGraphic, []*multipart.FileHeader{
			header("feature.png", "image/png", 300),
		})
		require.NoError(t, err)
		assert.False(t, p.LastUpdated.Before(before.LastUpdated))
		require.NotNil(t, p.Assets.FeatureGraphic)
	})
}

func TestIntake_Attach_Errors(t *testing.T) {
	in, _ := newIntake(t)
	one := []*multipart.FileHeader{header("f.png", "image/png", 1)}

	_, err := in.Attach("p1", "thumbnail", one)
	assert.ErrorIs(t, err, domain.ErrInvalidPurpose)

	_, err = in.Attach("p1", domain.PurposeIcon, nil)
	assert.ErrorIs(t, err, ErrNoFiles)

	_, err = in.Attach("missing", domain.PurposeIcon, one)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}
