package explorer

import (
	"context"

	"github.com/google/uuid"

	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/domain"
	domerrors "github.com/uiscraper/backend/internal/domain/errors"
)

// FragmentTreeResult is a fragment with its files arranged for the explorer.
type FragmentTreeResult struct {
	Fragment *domain.Fragment
	Tree     []TreeItem
}

// ComponentResult is the main component of a fragment, ready for the clipboard.
type ComponentResult struct {
	Path string
	Name string
	Code string
}

// FragmentExplorer serves the explorer and copy-component views of a stored fragment.
type FragmentExplorer struct {
	messages ports.MessageRepository
}

// NewFragmentExplorer builds the use case.
func NewFragmentExplorer(messages ports.MessageRepository) *FragmentExplorer {
	return &FragmentExplorer{messages: messages}
}

// Tree returns the fragment's file tree. Fragments of other users are not found.
func (uc *FragmentExplorer) Tree(ctx context.Context, userID string, fragmentID uuid.UUID) (*FragmentTreeResult, error) {
	fragment, err := uc.load(ctx, userID, fragmentID)
	if err != nil {
		return nil, err
	}
	return &FragmentTreeResult{Fragment: fragment, Tree: ConvertFilesToTreeItems(fragment.Files)}, nil
}

// Component returns the formatted main component, or ErrNoComponent when the fragment has no candidate file.
func (uc *FragmentExplorer) Component(ctx context.Context, userID string, fragmentID uuid.UUID) (*ComponentResult, error) {
	fragment, err := uc.load(ctx, userID, fragmentID)
	if err != nil {
		return nil, err
	}
	main, ok := ExtractMainComponent(fragment.Files)
	if !ok {
		return nil, domerrors.ErrNoComponent
	}
	return &ComponentResult{
		Path: main.Path,
		Name: main.Name,
		Code: FormatComponentForCopy(main.Code, main.Name),
	}, nil
}

func (uc *FragmentExplorer) load(ctx context.Context, userID string, fragmentID uuid.UUID) (*domain.Fragment, error) {
	fragment, err := uc.messages.GetFragment(ctx, userID, fragmentID)
	if err != nil {
		return nil, err
	}
	if fragment == nil {
		return nil, domerrors.ErrFragmentNotFound
	}
	return fragment, nil
}
