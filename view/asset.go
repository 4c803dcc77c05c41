package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/maney"
	"github.com/etnz/maney/api"
)

// Mode tells whether the asset editor shows or edits the asset.
type Mode int

const (
	ViewMode Mode = iota
	EditMode
)

func (m Mode) String() string {
	if m == EditMode {
		return "edit"
	}
	return "view"
}

// Draft holds the editor fields as typed by the user.
type Draft struct {
	Name           string
	Description    string
	EstimatedValue string
}

func draftOf(a maney.IlliquidAsset) Draft {
	return Draft{Name: a.Name, Description: a.Description, EstimatedValue: a.EstimatedValue.String()}
}

// asset converts the draft, unparsable values count as zero.
func (d Draft) asset(id int64) maney.IlliquidAsset {
	return maney.IlliquidAsset{
		ID:             id,
		Name:           d.Name,
		Description:    d.Description,
		EstimatedValue: maney.ParseValue(d.EstimatedValue),
	}
}

// Asset shows, creates, edits and deletes one illiquid asset.
//
// Whether the asset is new is decided once, from the path parameter.
type Asset struct {
	lifecycle
	app     *App
	isNew   bool
	id      int64
	valid   bool // the path parameter is "new" or an identifier
	status  Status
	mode    Mode
	asset   maney.IlliquidAsset
	draft   Draft
	message string
}

var _ Form = (*Asset)(nil)

// NewAsset returns the editor of the asset addressed by param, either an
// identifier or NewAssetID.
func NewAsset(app *App, param string) *Asset {
	v := &Asset{app: app}
	if param == NewAssetID {
		v.isNew, v.valid = true, true
		return v
	}
	id, err := strconv.ParseInt(param, 10, 64)
	if err == nil && id > 0 {
		v.id, v.valid = id, true
	}
	return v
}

// AssetState is what the asset editor shows.
type AssetState struct {
	New        bool
	ID         int64
	Status     Status
	Mode       Mode
	Asset      maney.IlliquidAsset
	Draft      Draft
	Message    string
	Submitting bool
}

func (v *Asset) State() AssetState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return AssetState{
		New:        v.isNew,
		ID:         v.id,
		Status:     v.status,
		Mode:       v.mode,
		Asset:      v.asset,
		Draft:      v.draft,
		Message:    v.message,
		Submitting: v.busy,
	}
}

// Mount starts editing a new asset, or fetches an existing one.
func (v *Asset) Mount(ctx context.Context) {
	epoch := v.mount()
	if v.isNew {
		v.update(epoch, func() {
			v.status, v.mode = Ready, EditMode
			v.draft = Draft{EstimatedValue: "0"}
			v.message = ""
		})
		return
	}
	v.load(ctx, epoch)
}

func (v *Asset) load(ctx context.Context, epoch int) {
	if !v.update(epoch, func() {
		v.status, v.mode = Loading, ViewMode
		v.message = ""
	}) {
		return
	}
	if !v.valid {
		v.update(epoch, func() { v.status, v.message = Failed, MsgAssetNotFound })
		return
	}

	a, err := v.app.Backend.Asset(ctx, v.id)
	applied := v.update(epoch, func() {
		if err == nil {
			v.status, v.asset = Ready, a
			v.draft = draftOf(a)
			return
		}
		v.status = Failed
		switch api.KindOf(err) {
		case api.KindUnauthorized:
		case api.KindNotFound:
			v.message = MsgAssetNotFound
		case api.KindFetchFailed:
			v.message = MsgAssetFetchFailed
		default:
			v.message = MsgUnexpected
		}
	})
	if applied && api.KindOf(err) == api.KindUnauthorized {
		v.app.navigate(PathLogin)
	}
}

// Edit switches an existing asset to edit mode.
func (v *Asset) Edit() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.status != Ready {
		return fmt.Errorf("asset: cannot edit, asset is %s", v.status)
	}
	v.mode = EditMode
	v.draft = draftOf(v.asset)
	v.message = ""
	return nil
}

// Set updates one of the name, description or estimatedValue fields.
func (v *Asset) Set(field, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mode != EditMode {
		return fmt.Errorf("asset: %w", ErrReadOnly)
	}
	switch strings.ToLower(field) {
	case "name":
		v.draft.Name = value
	case "description":
		v.draft.Description = value
	case "estimatedvalue", "value":
		v.draft.EstimatedValue = value
	default:
		return fmt.Errorf("asset: %w %q", ErrUnknownField, field)
	}
	return nil
}

// Submit saves the asset.
func (v *Asset) Submit(ctx context.Context) error { return v.Save(ctx) }

// Save creates the new asset and shows it at its assigned identifier, or
// updates the existing asset and shows the result in view mode.
func (v *Asset) Save(ctx context.Context) error {
	var draft maney.IlliquidAsset
	var editing bool
	epoch, err := v.begin(func() {
		editing = v.mode == EditMode
		draft = v.draft.asset(v.id)
		v.message = ""
	})
	if err != nil {
		return err
	}
	if !editing {
		v.end(epoch, nil)
		return fmt.Errorf("asset: %w", ErrReadOnly)
	}
	if err := draft.Validate(); err != nil {
		v.end(epoch, func() { v.message = validationMessage(err) })
		return err
	}

	var saved maney.IlliquidAsset
	if v.isNew {
		saved, err = v.app.Backend.CreateAsset(ctx, draft)
	} else {
		saved, err = v.app.Backend.UpdateAsset(ctx, v.id, draft)
	}
	applied := v.end(epoch, func() {
		if err != nil {
			if api.KindOf(err) != api.KindUnauthorized {
				v.message = MsgAssetSaveFailed
			}
			return
		}
		v.asset, v.status, v.mode = saved, Ready, ViewMode
		v.draft = draftOf(saved)
	})
	switch {
	case !applied:
	case api.KindOf(err) == api.KindUnauthorized:
		v.app.navigate(PathLogin)
	case err == nil && v.isNew:
		v.app.navigate(AssetPath(saved.ID))
	}
	return err
}

// Cancel leaves edit mode. Existing assets are fetched again, new ones are
// abandoned for the portfolio.
func (v *Asset) Cancel(ctx context.Context) {
	if v.isNew {
		v.app.navigate(PathPortfolio)
		return
	}
	v.load(ctx, v.current())
}

// Reload fetches the asset again.
func (v *Asset) Reload(ctx context.Context) {
	if v.isNew {
		return
	}
	v.load(ctx, v.current())
}

// Delete asks for confirmation then deletes the asset and shows the portfolio.
// Declining changes nothing.
func (v *Asset) Delete(ctx context.Context) error {
	if v.isNew {
		return fmt.Errorf("asset: cannot delete, asset is not saved")
	}
	st := v.State()
	if st.Status != Ready {
		return fmt.Errorf("asset: cannot delete, asset is %s", st.Status)
	}
	name := st.Asset.Name
	if name == "" {
		name = "#" + strconv.FormatInt(v.id, 10)
	}
	if !v.app.confirm(fmt.Sprintf("Delete asset %s?", name)) {
		return nil
	}

	epoch, err := v.begin(func() { v.message = "" })
	if err != nil {
		return err
	}
	err = v.app.Backend.DeleteAsset(ctx, v.id)
	applied := v.end(epoch, func() {
		switch api.KindOf(err) {
		case api.KindNone, api.KindUnauthorized:
		case api.KindNotFound:
			v.message = MsgAssetNotFound
		default:
			v.message = MsgAssetDeleteFailed
		}
	})
	switch {
	case !applied:
	case err == nil:
		v.app.navigate(PathPortfolio)
	case api.KindOf(err) == api.KindUnauthorized:
		v.app.navigate(PathLogin)
	}
	return err
}

// Back shows the portfolio.
func (v *Asset) Back() { v.app.navigate(PathPortfolio) }
