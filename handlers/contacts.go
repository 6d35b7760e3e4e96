package handlers

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/VictoriaMetrics/metrics"
	"github.com/danielgtaylor/huma/v2"

	ds "github.com/oaiiae/huma-contacts-patch/datastores"
	"github.com/oaiiae/huma-contacts-patch/patch"
	"github.com/oaiiae/huma-contacts-patch/validation"
)

type Contacts struct {
	Store        ds.ContactsStore
	Validator    patch.Validator // defaults to [validation.New]
	Metrics      *metrics.Set    // optional, receives patch_applied_total counters
	ErrorHandler func(context.Context, error)
}

var defaultValidator = validation.New() //nolint: gochecknoglobals // stateless after setup

func (h *Contacts) validator() patch.Validator {
	if h.Validator == nil {
		return defaultValidator
	}
	return h.Validator
}

func (h *Contacts) validate(in *ContactInput) error {
	err := h.validator().Validate(in)
	var invalid *validation.Error
	if errors.As(err, &invalid) {
		return invalidError(invalid)
	}
	return err
}

func (h *Contacts) RegisterCreate(api huma.API) { // called by [huma.AutoRegister]
	huma.Post(api, "/",
		handlerWithErrorHandler(h.create, h.ErrorHandler),
		opErrors(http.StatusUnprocessableEntity, http.StatusInternalServerError),
		func(o *huma.Operation) { o.DefaultStatus = http.StatusCreated },
	)
}

type ContactsCreateOutput struct {
	Location string `header:"Location" doc:"URL of the created contact, relative to the collection"`
}

func (h *Contacts) create(ctx context.Context, input *struct {
	Body ContactInput
}) (*ContactsCreateOutput, error) {
	if err := h.validate(&input.Body); err != nil {
		return nil, err
	}

	id, err := h.Store.Create(ctx, asContact(&input.Body))
	if err != nil {
		return nil, err
	}
	return &ContactsCreateOutput{Location: id.String()}, nil
}

func (h *Contacts) RegisterList(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/",
		handlerWithErrorHandler(h.list, h.ErrorHandler),
		opErrors(http.StatusInternalServerError),
	)
}

type ContactsListOutput struct {
	Body []ContactOutput
}

func (h *Contacts) list(ctx context.Context, _ *struct{}) (*ContactsListOutput, error) {
	contacts, err := h.Store.List(ctx)
	if err != nil {
		return nil, err
	}

	body := make([]ContactOutput, 0, len(contacts))
	for _, contact := range contacts {
		body = append(body, asOutput(contact))
	}

	return &ContactsListOutput{Body: body}, nil
}

func (h *Contacts) RegisterGet(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/{id}",
		handlerWithErrorHandler(h.get, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusInternalServerError),
	)
}

type ContactsGetOutput struct {
	Body ContactOutput
}

func (h *Contacts) get(ctx context.Context, input *struct {
	ID ds.ContactID `path:"id" doc:"ID of the contact to get"`
}) (*ContactsGetOutput, error) {
	contact, err := h.Store.Get(ctx, input.ID)
	if err != nil {
		return nil, storeError(err)
	}
	return &ContactsGetOutput{Body: asOutput(contact)}, nil
}

func (h *Contacts) RegisterPut(api huma.API) { // called by [huma.AutoRegister]
	huma.Put(api, "/{id}",
		handlerWithErrorHandler(h.put, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusUnprocessableEntity, http.StatusInternalServerError),
	)
}

func (h *Contacts) put(ctx context.Context, input *struct {
	ID   ds.ContactID `path:"id" doc:"ID of the contact to put"`
	Body ContactInput
}) (*struct{}, error) {
	if err := h.validate(&input.Body); err != nil {
		return nil, err
	}

	contact, err := h.Store.Get(ctx, input.ID)
	if err != nil {
		return nil, storeError(err)
	}
	update(contact, &input.Body)
	return nil, storeError(h.Store.Update(ctx, contact))
}

func (h *Contacts) RegisterPatch(api huma.API) { // called by [huma.AutoRegister]
	huma.Patch(api, "/{id}",
		handlerWithErrorHandler(h.patch, h.ErrorHandler),
		opErrors(
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusConflict,
			http.StatusUnsupportedMediaType,
			http.StatusUnprocessableEntity,
			http.StatusInternalServerError,
		),
		func(o *huma.Operation) {
			o.Description = "Applies a JSON Patch (" + patch.MediaTypeJSONPatch + ") " +
				"or a JSON Merge Patch (" + patch.MediaTypeMergePatch + ") to the contact."
			o.RequestBody = &huma.RequestBody{
				Required: true,
				Content: map[string]*huma.MediaType{
					patch.MediaTypeJSONPatch: {Schema: &huma.Schema{
						Type:  huma.TypeArray,
						Items: &huma.Schema{Type: huma.TypeObject},
					}},
					patch.MediaTypeMergePatch: {Schema: &huma.Schema{Type: huma.TypeObject}},
				},
			}
		},
	)
}

type ContactsPatchInput struct {
	ID          ds.ContactID `path:"id"             doc:"ID of the contact to patch"`
	ContentType string       `header:"Content-Type" doc:"media type of the patch document"`
	RawBody     []byte       `contentType:"application/json-patch+json"`
}

func (h *Contacts) patch(ctx context.Context, input *ContactsPatchInput) (*struct{}, error) {
	kind, err := patchKind(input.ContentType)
	if err != nil {
		return nil, err
	}

	contact, err := h.Store.Get(ctx, input.ID)
	if err != nil {
		return nil, storeError(err)
	}

	patched, err := h.applyPatch(kind, input.RawBody, *asInput(contact))
	h.countPatch(kind, err)
	if err != nil {
		return nil, patchError(err)
	}

	update(contact, &patched)
	return nil, storeError(h.Store.Update(ctx, contact))
}

// patchKind selects the patch media type named by contentType, ignoring parameters.
func patchKind(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", huma.NewError(http.StatusUnsupportedMediaType, "invalid Content-Type header", err)
	}
	switch mediaType {
	case patch.MediaTypeJSONPatch, patch.MediaTypeMergePatch:
		return mediaType, nil
	default:
		return "", huma.NewError(http.StatusUnsupportedMediaType,
			"unsupported patch media type "+strconv.Quote(mediaType)+
				", use "+patch.MediaTypeJSONPatch+" or "+patch.MediaTypeMergePatch)
	}
}

func (h *Contacts) applyPatch(kind string, body []byte, target ContactInput) (ContactInput, error) {
	switch kind {
	case patch.MediaTypeJSONPatch:
		ops, err := patch.DecodeJSONPatch(body)
		if err != nil {
			return ContactInput{}, err
		}
		return patch.Apply(ops, target, h.validator())
	default:
		doc, err := patch.DecodeMergePatch(body)
		if err != nil {
			return ContactInput{}, err
		}
		return patch.Merge(doc, target, h.validator())
	}
}

func (h *Contacts) countPatch(kind string, err error) {
	if h.Metrics == nil {
		return
	}
	labels := `{kind="` + kind + `",result="` + patchResult(err) + `"}`
	h.Metrics.GetOrCreateCounter("patch_applied_total" + labels).Inc()
}

func (h *Contacts) RegisterDel(api huma.API) { // called by [huma.AutoRegister]
	huma.Delete(api, "/{id}",
		handlerWithErrorHandler(h.del, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusInternalServerError),
	)
}

func (h *Contacts) del(ctx context.Context, input *struct {
	ID ds.ContactID `path:"id" doc:"ID of the contact to delete"`
}) (*struct{}, error) {
	return nil, storeError(h.Store.Delete(ctx, input.ID))
}

func storeError(err error) error {
	if errors.Is(err, ds.ErrObjectNotFound) {
		return huma.Error404NotFound("id not found", err)
	}
	return err
}
