package filter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rushteam/matchkit/core"
)

func boolPtr(b bool) *bool { return &b }

func f64Ptr(f float64) *float64 { return &f }

func newCandidate(id string, attrs map[string]string) *core.Candidate {
	c := core.NewCandidate(id)
	for k, v := range attrs {
		c.SetAttr(k, v)
	}
	return c
}

func TestFromTarget(t *testing.T) {
	tests := []struct {
		name      string
		target    *core.MatchTarget
		wantNames []string
	}{
		{
			name:   "nil 目标无过滤器",
			target: nil,
		},
		{
			name:   "空目标无过滤器",
			target: &core.MatchTarget{},
		},
		{
			name: "全部硬性约束",
			target: &core.MatchTarget{
				Lengths:       []string{"long"},
				AvailableOnly: true,
				PriceMin:      f64Ptr(50),
				PriceMax:      f64Ptr(300),
			},
			wantNames: []string{"filter.length", "filter.availability", "filter.price"},
		},
		{
			name:      "仅价格上界",
			target:    &core.MatchTarget{PriceMax: f64Ptr(100)},
			wantNames: []string{"filter.price"},
		},
		{
			name:      "风格不产生硬过滤",
			target:    &core.MatchTarget{Style: "bob"},
			wantNames: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filters := FromTarget(tt.target)
			if len(filters) != len(tt.wantNames) {
				t.Fatalf("len(filters) = %d, want %d", len(filters), len(tt.wantNames))
			}
			for i, want := range tt.wantNames {
				if got := filters[i].Name(); got != want {
					t.Errorf("filters[%d].Name() = %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestLengthFilter(t *testing.T) {
	tests := []struct {
		name       string
		lengths    []string
		attrLength string
		title      string
		want       bool
	}{
		{name: "命中档位保留", lengths: []string{"short", "medium"}, attrLength: "medium", want: false},
		{name: "大小写与空白归一化", lengths: []string{"Long"}, attrLength: "  long ", want: false},
		{name: "未命中档位过滤", lengths: []string{"long"}, attrLength: "short", title: "Pixie Cut Wig", want: true},
		{name: "未归一化长度子串命中", lengths: []string{"short"}, attrLength: "short bob 10 inch", want: false},
		{name: "标题子串兜底命中", lengths: []string{"short"}, attrLength: "", title: "Short Bob Lace Wig", want: false},
		{name: "长度与标题均未命中过滤", lengths: []string{"short"}, attrLength: "long", title: "Waist Length Wave", want: true},
		{name: "约束生效时无长度信号过滤", lengths: []string{"long"}, attrLength: "", want: true},
		{name: "无约束时全部保留", lengths: nil, attrLength: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := core.NewCandidate("p1")
			c.Title = tt.title
			if tt.attrLength != "" {
				c.SetAttr(core.AttrLength, tt.attrLength)
			}
			f := &LengthFilter{Lengths: tt.lengths}
			got, err := f.ShouldFilter(context.Background(), nil, c)
			if err != nil {
				t.Fatalf("ShouldFilter() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAvailabilityFilter(t *testing.T) {
	tests := []struct {
		name      string
		available *bool
		want      bool
	}{
		{name: "明确有库存保留", available: boolPtr(true), want: false},
		{name: "明确无库存过滤", available: boolPtr(false), want: true},
		{name: "库存状态未知保留", available: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := core.NewCandidate("p1")
			c.Available = tt.available
			f := &AvailabilityFilter{}
			got, err := f.ShouldFilter(context.Background(), nil, c)
			if err != nil {
				t.Fatalf("ShouldFilter() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriceFilter(t *testing.T) {
	tests := []struct {
		name  string
		min   *float64
		max   *float64
		price float64
		want  bool
	}{
		{name: "区间内保留", min: f64Ptr(50), max: f64Ptr(300), price: 120, want: false},
		{name: "闭区间下界保留", min: f64Ptr(50), max: f64Ptr(300), price: 50, want: false},
		{name: "闭区间上界保留", min: f64Ptr(50), max: f64Ptr(300), price: 300, want: false},
		{name: "低于下界过滤", min: f64Ptr(50), price: 49.99, want: true},
		{name: "高于上界过滤", max: f64Ptr(300), price: 300.01, want: true},
		{name: "解析失败价格只设上界时保留", max: f64Ptr(100), price: 0, want: false},
		{name: "解析失败价格设下界时过滤", min: f64Ptr(1), price: 0, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := core.NewCandidate("p1")
			c.Price = tt.price
			f := &PriceFilter{Min: tt.min, Max: tt.max}
			got, err := f.ShouldFilter(context.Background(), nil, c)
			if err != nil {
				t.Fatalf("ShouldFilter() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStyleFilter(t *testing.T) {
	mctx := &core.MatchContext{
		Target: &core.MatchTarget{Style: "bob"},
	}

	tests := []struct {
		name      string
		style     string
		attrStyle string
		want      bool
	}{
		{name: "显式风格命中保留", style: "pixie", attrStyle: "Pixie", want: false},
		{name: "显式风格未命中过滤", style: "pixie", attrStyle: "bob", want: true},
		{name: "兼容表命中保留", style: "professional", attrStyle: "classic", want: false},
		{name: "兼容表是单向的", style: "modern", attrStyle: "professional", want: true},
		{name: "回退目标风格", style: "", attrStyle: "bob", want: false},
		{name: "回退目标风格未命中过滤", style: "", attrStyle: "layered", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCandidate("p1", map[string]string{core.AttrStyle: tt.attrStyle})
			f := &StyleFilter{Style: tt.style}
			got, err := f.ShouldFilter(context.Background(), mctx, c)
			if err != nil {
				t.Fatalf("ShouldFilter() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("无风格约束保留", func(t *testing.T) {
		c := newCandidate("p1", map[string]string{core.AttrStyle: "bob"})
		f := &StyleFilter{}
		got, err := f.ShouldFilter(context.Background(), &core.MatchContext{}, c)
		if err != nil {
			t.Fatalf("ShouldFilter() error = %v", err)
		}
		if got {
			t.Errorf("ShouldFilter() = true, want false")
		}
	})
}

func TestRuleFilter(t *testing.T) {
	f, err := NewRuleFilter(`item.vendor == "discontinued-brand"`)
	if err != nil {
		t.Fatalf("NewRuleFilter() error = %v", err)
	}

	blocked := core.NewCandidate("p1")
	blocked.Vendor = "discontinued-brand"
	got, err := f.ShouldFilter(context.Background(), nil, blocked)
	if err != nil {
		t.Fatalf("ShouldFilter() error = %v", err)
	}
	if !got {
		t.Errorf("ShouldFilter() = false, want true for blocked vendor")
	}

	kept := core.NewCandidate("p2")
	kept.Vendor = "good-brand"
	got, err = f.ShouldFilter(context.Background(), nil, kept)
	if err != nil {
		t.Fatalf("ShouldFilter() error = %v", err)
	}
	if got {
		t.Errorf("ShouldFilter() = true, want false for allowed vendor")
	}
}

func TestNewRuleFilterCompileError(t *testing.T) {
	if _, err := NewRuleFilter(`item.price >`); err == nil {
		t.Fatal("NewRuleFilter() error = nil, want compile error")
	}
}

// stubBlacklistStore 实现 BlacklistStore 接口。
type stubBlacklistStore struct {
	ids []string
	err error
}

func (s *stubBlacklistStore) GetBlacklist(ctx context.Context, key string) ([]string, error) {
	return s.ids, s.err
}

func TestBlacklistFilter(t *testing.T) {
	t.Run("内存黑名单命中过滤", func(t *testing.T) {
		f := NewBlacklistFilter([]string{"p1", "p2"}, nil, "")
		got, err := f.ShouldFilter(context.Background(), nil, core.NewCandidate("p1"))
		if err != nil {
			t.Fatalf("ShouldFilter() error = %v", err)
		}
		if !got {
			t.Error("ShouldFilter() = false, want true")
		}
	})

	t.Run("存储黑名单命中过滤", func(t *testing.T) {
		f := &BlacklistFilter{
			Store: &stubBlacklistStore{ids: []string{"p9"}},
			Key:   "blacklist:global",
		}
		got, err := f.ShouldFilter(context.Background(), nil, core.NewCandidate("p9"))
		if err != nil {
			t.Fatalf("ShouldFilter() error = %v", err)
		}
		if !got {
			t.Error("ShouldFilter() = false, want true")
		}
	})

	t.Run("存储出错时降级保留", func(t *testing.T) {
		f := &BlacklistFilter{
			Store: &stubBlacklistStore{err: errors.New("store down")},
			Key:   "blacklist:global",
		}
		got, err := f.ShouldFilter(context.Background(), nil, core.NewCandidate("p1"))
		if err != nil {
			t.Fatalf("ShouldFilter() error = %v", err)
		}
		if got {
			t.Error("ShouldFilter() = true, want false on store error")
		}
	})

	t.Run("未命中保留", func(t *testing.T) {
		f := NewBlacklistFilter([]string{"p1"}, nil, "")
		got, err := f.ShouldFilter(context.Background(), nil, core.NewCandidate("p3"))
		if err != nil {
			t.Fatalf("ShouldFilter() error = %v", err)
		}
		if got {
			t.Error("ShouldFilter() = true, want false")
		}
	})
}

// fakeStore 是仅支持 Get 的 core.Store 测试替身。
type fakeStore struct {
	data map[string][]byte
}

func (s *fakeStore) Name() string { return "fake" }

func (s *fakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := s.data[key]; ok {
		return v, nil
	}
	return nil, core.ErrStoreNotFound
}

func (s *fakeStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	if s.data == nil {
		s.data = make(map[string][]byte)
	}
	s.data[key] = value
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func (s *fakeStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if v, ok := s.data[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *fakeStore) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	for k, v := range kvs {
		s.data[k] = v
	}
	return nil
}

func (s *fakeStore) Close() error { return nil }

func TestStoreAdapterGetSeenProducts(t *testing.T) {
	now := time.Now().Unix()
	entries := []map[string]any{
		{"product_id": "p-fresh", "timestamp": now - 60},
		{"product_id": "p-stale", "timestamp": now - 7200},
	}
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	adapter := NewStoreAdapter(&fakeStore{
		data: map[string][]byte{
			"user:seen:u1": data,
			"user:seen:u2": []byte(`["p1","p2"]`),
		},
	})

	t.Run("时间窗口内保留", func(t *testing.T) {
		ids, err := adapter.GetSeenProducts(context.Background(), "u1", "user:seen", 3600)
		if err != nil {
			t.Fatalf("GetSeenProducts() error = %v", err)
		}
		if len(ids) != 1 || ids[0] != "p-fresh" {
			t.Errorf("GetSeenProducts() = %v, want [p-fresh]", ids)
		}
	})

	t.Run("零窗口不过滤时间", func(t *testing.T) {
		ids, err := adapter.GetSeenProducts(context.Background(), "u1", "user:seen", 0)
		if err != nil {
			t.Fatalf("GetSeenProducts() error = %v", err)
		}
		if len(ids) != 2 {
			t.Errorf("len(ids) = %d, want 2", len(ids))
		}
	})

	t.Run("简单列表格式", func(t *testing.T) {
		ids, err := adapter.GetSeenProducts(context.Background(), "u2", "user:seen", 3600)
		if err != nil {
			t.Fatalf("GetSeenProducts() error = %v", err)
		}
		if len(ids) != 2 {
			t.Errorf("len(ids) = %d, want 2", len(ids))
		}
	})
}

func TestSeenFilter(t *testing.T) {
	now := time.Now().Unix()
	data, _ := json.Marshal([]map[string]any{
		{"product_id": "p1", "timestamp": now - 60},
	})
	adapter := NewStoreAdapter(&fakeStore{
		data: map[string][]byte{"user:seen:u1": data},
	})
	f := NewSeenFilter(adapter, "", 3600)
	mctx := &core.MatchContext{UserID: "u1"}

	got, err := f.ShouldFilter(context.Background(), mctx, core.NewCandidate("p1"))
	if err != nil {
		t.Fatalf("ShouldFilter() error = %v", err)
	}
	if !got {
		t.Error("ShouldFilter() = false, want true for recently seen product")
	}

	got, err = f.ShouldFilter(context.Background(), mctx, core.NewCandidate("p2"))
	if err != nil {
		t.Fatalf("ShouldFilter() error = %v", err)
	}
	if got {
		t.Error("ShouldFilter() = true, want false for unseen product")
	}

	// 匿名请求不做浏览历史过滤
	got, err = f.ShouldFilter(context.Background(), &core.MatchContext{}, core.NewCandidate("p1"))
	if err != nil {
		t.Fatalf("ShouldFilter() error = %v", err)
	}
	if got {
		t.Error("ShouldFilter() = true, want false for anonymous request")
	}
}

// errFilter 总是返回错误，用于验证单个过滤器出错不影响整批候选。
type errFilter struct{}

func (f *errFilter) Name() string { return "filter.err" }

func (f *errFilter) ShouldFilter(ctx context.Context, mctx *core.MatchContext, c *core.Candidate) (bool, error) {
	return true, errors.New("boom")
}

func TestFilterNode(t *testing.T) {
	avail := newCandidate("p1", map[string]string{core.AttrLength: "long"})
	avail.Available = boolPtr(true)
	sold := newCandidate("p2", map[string]string{core.AttrLength: "long"})
	sold.Available = boolPtr(false)
	short := newCandidate("p3", map[string]string{core.AttrLength: "short"})

	node := &FilterNode{
		Filters: []Filter{
			&errFilter{},
			&AvailabilityFilter{},
			&LengthFilter{Lengths: []string{"long"}},
		},
	}

	out, err := node.Process(context.Background(), &core.MatchContext{}, []*core.Candidate{avail, sold, short, nil})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 1 || out[0].ID != "p1" {
		t.Fatalf("Process() kept %d candidates, want only p1", len(out))
	}

	// 被过滤的候选打上 filtered 标签，Source 记录过滤器名称
	if lbl, ok := sold.GetLabel("filtered"); !ok {
		t.Error("sold candidate missing filtered label")
	} else if lbl.Source != "filter.availability" {
		t.Errorf("filtered label source = %q, want %q", lbl.Source, "filter.availability")
	}
	if lbl, ok := short.GetLabel("filtered"); !ok {
		t.Error("short candidate missing filtered label")
	} else if lbl.Source != "filter.length" {
		t.Errorf("filtered label source = %q, want %q", lbl.Source, "filter.length")
	}
}

func TestFilterNodeNoFilters(t *testing.T) {
	items := []*core.Candidate{core.NewCandidate("p1")}
	node := &FilterNode{}
	out, err := node.Process(context.Background(), &core.MatchContext{}, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
}
