package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/moodtune/moodtune/internal/models"
	"github.com/moodtune/moodtune/internal/shared"
)

type mockPlaylistStore struct {
	saved       *models.PlaylistDraft
	saveResult  *models.Playlist
	saveErr     error
	favoriteID  string
	favoriteVal bool
	deletedID   string
}

func (m *mockPlaylistStore) SavePlaylist(ctx context.Context, draft *models.PlaylistDraft) (*models.Playlist, error) {
	m.saved = draft
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	return m.saveResult, nil
}

func (m *mockPlaylistStore) SetFavorite(ctx context.Context, playlistID string, favorite bool) (*models.Playlist, error) {
	m.favoriteID = playlistID
	m.favoriteVal = favorite
	return &models.Playlist{ID: playlistID, IsFavorite: favorite}, nil
}

func (m *mockPlaylistStore) DeletePlaylist(ctx context.Context, playlistID string) error {
	m.deletedID = playlistID
	return nil
}

func sampleSet() *models.RecommendationSet {
	return &models.RecommendationSet{
		Emotion:             models.EmotionHappy,
		Tracks:              []models.Track{track("a"), track("b")},
		MusicParameters:     models.ParametersFor(models.EmotionHappy),
		PlaylistDescription: "Feel-good anthems",
		Total:               2,
	}
}

func TestPlaylistAssembler_Assemble(t *testing.T) {
	tests := []struct {
		name     string
		plName   string
		plDesc   string
		set      *models.RecommendationSet
		wantErr  error
		wantName string
		wantDesc string
	}{
		{
			name:     "valid name",
			plName:   "Morning Boost",
			set:      sampleSet(),
			wantName: "Morning Boost",
			wantDesc: "Feel-good anthems",
		},
		{
			name:     "trims surrounding whitespace",
			plName:   "  Morning Boost  ",
			set:      sampleSet(),
			wantName: "Morning Boost",
			wantDesc: "Feel-good anthems",
		},
		{
			name:     "custom description overrides the catalog one",
			plName:   "Morning Boost",
			plDesc:   "My gym mix",
			set:      sampleSet(),
			wantName: "Morning Boost",
			wantDesc: "My gym mix",
		},
		{
			name:     "blank description falls back to the catalog one",
			plName:   "Morning Boost",
			plDesc:   "   ",
			set:      sampleSet(),
			wantName: "Morning Boost",
			wantDesc: "Feel-good anthems",
		},
		{
			name:    "empty name rejected",
			plName:  "",
			set:     sampleSet(),
			wantErr: shared.ErrValidation,
		},
		{
			name:    "whitespace-only name rejected",
			plName:  "   ",
			set:     sampleSet(),
			wantErr: shared.ErrValidation,
		},
		{
			name:     "name at the length cap",
			plName:   strings.Repeat("x", MaxPlaylistNameLength),
			set:      sampleSet(),
			wantName: strings.Repeat("x", MaxPlaylistNameLength),
		},
		{
			name:    "name over the length cap rejected",
			plName:  strings.Repeat("x", MaxPlaylistNameLength+1),
			set:     sampleSet(),
			wantErr: shared.ErrValidation,
		},
		{
			name:    "nil set rejected",
			plName:  "Morning Boost",
			set:     nil,
			wantErr: shared.ErrInvalidInput,
		},
	}

	assembler := NewPlaylistAssembler(&mockPlaylistStore{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := assembler.Assemble(tt.plName, tt.set, tt.plDesc, "")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Assemble() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Assemble() error = %v", err)
			}
			if draft.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", draft.Name, tt.wantName)
			}
			if draft.IsFavorite {
				t.Error("new drafts must start unfavorited")
			}
			if draft.Emotion != tt.set.Emotion {
				t.Errorf("Emotion = %q, want %q", draft.Emotion, tt.set.Emotion)
			}
			if draft.Description != tt.wantDesc {
				t.Errorf("Description = %q, want %q", draft.Description, tt.wantDesc)
			}
		})
	}
}

func TestPlaylistAssembler_AssembleSnapshotsByValue(t *testing.T) {
	set := sampleSet()
	assembler := NewPlaylistAssembler(&mockPlaylistStore{})

	draft, err := assembler.Assemble("Snapshot", set, "", "an_1")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	set.Tracks[0].Name = "mutated"
	set.Tracks[0].Artists[0] = "mutated"
	set.MusicParameters.Tempo = 999

	if draft.Tracks[0].Name == "mutated" {
		t.Error("draft track shares storage with the source set")
	}
	if draft.Tracks[0].Artists[0] == "mutated" {
		t.Error("draft artist list shares storage with the source set")
	}
	if draft.MusicParameters.Tempo == 999 {
		t.Error("draft parameters share storage with the source set")
	}
	if draft.AnalysisID != "an_1" {
		t.Errorf("AnalysisID = %q, want an_1", draft.AnalysisID)
	}
}

func TestPlaylistAssembler_Save(t *testing.T) {
	store := &mockPlaylistStore{saveResult: &models.Playlist{ID: "pl_1", Name: "Morning Boost"}}
	assembler := NewPlaylistAssembler(store)

	draft, err := assembler.Assemble("Morning Boost", sampleSet(), "", "")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	saved, err := assembler.Save(context.Background(), draft)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.ID != "pl_1" {
		t.Errorf("saved ID = %q, want pl_1", saved.ID)
	}
	if store.saved != draft {
		t.Error("draft was not passed through to the store")
	}

	if _, err := assembler.Save(context.Background(), nil); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("Save(nil) error = %v, want %v", err, shared.ErrInvalidInput)
	}
}

func TestPlaylistAssembler_SaveUpstreamError(t *testing.T) {
	store := &mockPlaylistStore{saveErr: errors.New("upstream error (status 500): internal error")}
	assembler := NewPlaylistAssembler(store)

	draft, _ := assembler.Assemble("Morning Boost", sampleSet(), "", "")
	if _, err := assembler.Save(context.Background(), draft); err == nil || err != store.saveErr {
		t.Errorf("upstream error must surface verbatim, got %v", err)
	}
}

func TestPlaylistAssembler_ToggleFavoriteAndDelete(t *testing.T) {
	store := &mockPlaylistStore{}
	assembler := NewPlaylistAssembler(store)

	pl, err := assembler.ToggleFavorite(context.Background(), "pl_1", true)
	if err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	if !pl.IsFavorite || store.favoriteID != "pl_1" || !store.favoriteVal {
		t.Errorf("favorite not forwarded: %+v", store)
	}

	if _, err := assembler.ToggleFavorite(context.Background(), "", true); !errors.Is(err, shared.ErrMissingArgument) {
		t.Errorf("ToggleFavorite(\"\") error = %v, want %v", err, shared.ErrMissingArgument)
	}

	if err := assembler.Delete(context.Background(), "pl_2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if store.deletedID != "pl_2" {
		t.Errorf("deletedID = %q, want pl_2", store.deletedID)
	}

	if err := assembler.Delete(context.Background(), ""); !errors.Is(err, shared.ErrMissingArgument) {
		t.Errorf("Delete(\"\") error = %v, want %v", err, shared.ErrMissingArgument)
	}
}
