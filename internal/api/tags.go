package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/clearance-asce/portal/internal/domain"
	"github.com/clearance-asce/portal/internal/gateway"
)

// TagsService covers the RFID tag association endpoints.
type TagsService struct {
	gw *gateway.Client
}

// Link associates a tag with the student or user named in the request. The
// backend is the authoritative guard on target exclusivity.
func (s TagsService) Link(ctx context.Context, req domain.TagLinkRequest) (domain.RFIDTag, error) {
	var tag domain.RFIDTag
	if err := s.gw.Post(ctx, "/admin/tags/link", req, &tag); err != nil {
		return domain.RFIDTag{}, err
	}
	return tag, nil
}

// Unlink removes a tag's association, making the tag available again.
func (s TagsService) Unlink(ctx context.Context, tagID string) (domain.RFIDTag, error) {
	var tag domain.RFIDTag
	path := fmt.Sprintf("/admin/tags/%s/unlink", url.PathEscape(tagID))
	if err := s.gw.Delete(ctx, path, &tag); err != nil {
		return domain.RFIDTag{}, err
	}
	return tag, nil
}
