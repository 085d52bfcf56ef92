package core

import "testing"

func TestProfileFromText(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantNil    bool
		wantFamily string
		wantShade  string
		wantLen    string
		wantTex    string
	}{
		{
			name:       "完整描述",
			text:       "long wavy ash blonde hair",
			wantFamily: "blonde",
			wantShade:  "ash blonde",
			wantLen:    "long",
			wantTex:    "wavy",
		},
		{
			name:       "仅色族",
			text:       "my hair is brown",
			wantFamily: "brunette",
		},
		{
			name:    "仅长度",
			text:    "short cut",
			wantLen: "short",
		},
		{
			name:       "文件名风格输入",
			text:       "IMG_curly-auburn-bob.jpg",
			wantFamily: "red",
			wantShade:  "auburn",
			wantLen:    "short",
			wantTex:    "curly",
		},
		{
			name:    "无任何信号",
			text:    "just a random sentence",
			wantNil: true,
		},
		{
			name:    "空输入",
			text:    "",
			wantNil: true,
		},
		{
			name:    "碎片词不误命中色号",
			text:    "layered style product",
			wantNil: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ProfileFromText(tt.text)
			if tt.wantNil {
				if p != nil {
					t.Fatalf("ProfileFromText(%q) = %+v, want nil", tt.text, p)
				}
				return
			}
			if p == nil {
				t.Fatalf("ProfileFromText(%q) = nil", tt.text)
			}
			if p.ColorFamily != tt.wantFamily {
				t.Errorf("ColorFamily = %q, want %q", p.ColorFamily, tt.wantFamily)
			}
			if p.Shade != tt.wantShade {
				t.Errorf("Shade = %q, want %q", p.Shade, tt.wantShade)
			}
			if p.Length != tt.wantLen {
				t.Errorf("Length = %q, want %q", p.Length, tt.wantLen)
			}
			if p.Texture != tt.wantTex {
				t.Errorf("Texture = %q, want %q", p.Texture, tt.wantTex)
			}
			if p.Source != ProfileSourceKeyword {
				t.Errorf("Source = %q, want %q", p.Source, ProfileSourceKeyword)
			}
		})
	}
}

func TestProfileTarget(t *testing.T) {
	t.Run("色号补齐感知色值", func(t *testing.T) {
		p := &HairProfile{Shade: "jet black"}
		tgt := p.Target()
		if tgt == nil {
			t.Fatal("Target() = nil")
		}
		if tgt.Color == nil {
			t.Error("色号存在时应查表补齐感知色值")
		}
		if tgt.ColorFamily != "black" {
			t.Errorf("ColorFamily = %q, want black", tgt.ColorFamily)
		}
	})

	t.Run("无法解析的色号仅保留色族", func(t *testing.T) {
		p := &HairProfile{ColorFamily: "blonde", Shade: "unknown custom 999"}
		tgt := p.Target()
		if tgt.Color != nil {
			t.Error("色号无法解析时不应有感知色值")
		}
		if tgt.ColorFamily != "blonde" {
			t.Errorf("ColorFamily = %q, want blonde", tgt.ColorFamily)
		}
	})

	t.Run("长度转换为档位列表", func(t *testing.T) {
		p := &HairProfile{Length: "medium"}
		tgt := p.Target()
		if len(tgt.Lengths) != 1 || tgt.Lengths[0] != "medium" {
			t.Errorf("Lengths = %v, want [medium]", tgt.Lengths)
		}
	})

	t.Run("nil 画像", func(t *testing.T) {
		var p *HairProfile
		if tgt := p.Target(); tgt != nil {
			t.Errorf("nil 画像应返回 nil 目标, got %+v", tgt)
		}
	})
}

func TestAcceptedFamilies(t *testing.T) {
	tests := []struct {
		name   string
		target MatchTarget
		want   []string
	}{
		{
			name:   "显式列表规范化去重",
			target: MatchTarget{Families: []string{"Blonde", "brown", "brunette", "mystery"}},
			want:   []string{"blonde", "brunette"},
		},
		{
			name:   "回退到单一色族",
			target: MatchTarget{ColorFamily: "grey"},
			want:   []string{"gray"},
		},
		{
			name:   "无色族信息",
			target: MatchTarget{},
			want:   []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.target.AcceptedFamilies()
			if len(got) != len(tt.want) {
				t.Fatalf("AcceptedFamilies() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("AcceptedFamilies()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
