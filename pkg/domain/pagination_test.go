package domain

import (
	"errors"
	"math"
	"testing"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{total: 0, limit: 10, want: 0},
		{total: 1, limit: 10, want: 1},
		{total: 10, limit: 10, want: 1},
		{total: 25, limit: 10, want: 3},
		{total: 100, limit: 100, want: 1},
		{total: 5, limit: 0, want: 0},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestPageRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       PageRequest
		wantField string
	}{
		{name: "defaults", req: DefaultPageRequest()},
		{name: "max limit", req: PageRequest{Page: 1, Limit: MaxLimit}},
		{name: "page zero", req: PageRequest{Page: 0, Limit: 10}, wantField: "page"},
		{name: "limit zero", req: PageRequest{Page: 1, Limit: 0}, wantField: "limit"},
		{name: "limit over max", req: PageRequest{Page: 1, Limit: MaxLimit + 1}, wantField: "limit"},
		{name: "largest addressable page", req: PageRequest{Page: math.MaxInt/10 + 1, Limit: 10}},
		{name: "offset overflows", req: PageRequest{Page: math.MaxInt/10 + 2, Limit: 10}, wantField: "page"},
		{name: "max int page", req: PageRequest{Page: math.MaxInt, Limit: 10}, wantField: "page"},
		{name: "page wraps offset to zero", req: PageRequest{Page: 1<<62 + 1, Limit: 4}, wantField: "page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			var de *Error
			if !errors.As(err, &de) || de.Field != tt.wantField {
				t.Errorf("Validate() = %v, want invalid %s", err, tt.wantField)
			}
		})
	}
}

func TestNewPage(t *testing.T) {
	page := NewPage[int](nil, 25, PageRequest{Page: 3, Limit: 10})

	if page.Items == nil || len(page.Items) != 0 {
		t.Errorf("Items = %v, want empty non-nil slice", page.Items)
	}
	if page.TotalPages != 3 || page.Page != 3 || page.Limit != 10 || page.Total != 25 {
		t.Errorf("page = %+v", page)
	}
	if off := (PageRequest{Page: 3, Limit: 10}).Offset(); off != 20 {
		t.Errorf("Offset() = %d, want 20", off)
	}
}

func TestPageRequest_OffsetSaturates(t *testing.T) {
	tests := []struct {
		req  PageRequest
		want int
	}{
		{req: PageRequest{Page: 1, Limit: 10}, want: 0},
		{req: PageRequest{Page: math.MaxInt, Limit: 10}, want: math.MaxInt},
		{req: PageRequest{Page: 1<<62 + 1, Limit: 4}, want: math.MaxInt},
		{req: PageRequest{Page: 0, Limit: 10}, want: 0},
	}

	for _, tt := range tests {
		if got := tt.req.Offset(); got != tt.want {
			t.Errorf("Offset(%+v) = %d, want %d", tt.req, got, tt.want)
		}
	}
}

func TestDeletedScope_Includes(t *testing.T) {
	tests := []struct {
		scope         DeletedScope
		live, deleted bool
	}{
		{scope: ScopeLive, live: true, deleted: false},
		{scope: ScopeAll, live: true, deleted: true},
		{scope: ScopeDeleted, live: false, deleted: true},
	}

	for _, tt := range tests {
		if got := tt.scope.Includes(false); got != tt.live {
			t.Errorf("scope %d Includes(live) = %v, want %v", tt.scope, got, tt.live)
		}
		if got := tt.scope.Includes(true); got != tt.deleted {
			t.Errorf("scope %d Includes(deleted) = %v, want %v", tt.scope, got, tt.deleted)
		}
	}
}
