package dto

import (
	"reflect"
	"testing"
)

func TestDecodeJSONPayload_Object(t *testing.T) {
	p, err := DecodeJSONPayload([]byte(`{"prenom":"Alice","nps":9}`))
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	if p["prenom"] != "Alice" || p["nps"] != float64(9) {
		t.Errorf("解析结果不符: %#v", p)
	}
}

func TestDecodeJSONPayload_NonObjectIsEmpty(t *testing.T) {
	for _, raw := range []string{`[1,2]`, `"text"`, `null`, `42`, ``} {
		p, err := DecodeJSONPayload([]byte(raw))
		if err != nil {
			t.Fatalf("%q 不应报错: %v", raw, err)
		}
		if len(p) != 0 {
			t.Errorf("%q 期望空表单，实际 %#v", raw, p)
		}
	}
}

func TestDecodeJSONPayload_Malformed(t *testing.T) {
	if _, err := DecodeJSONPayload([]byte(`{"prenom":`)); err == nil {
		t.Error("非法 JSON 应返回错误")
	}
}

func TestDecodeFormPayload(t *testing.T) {
	p, err := DecodeFormPayload([]byte("prenom=Alice&nom=Dupont&nom=X&t_rts=4"))
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	if p["nom"] != "Dupont" || p["t_rts"] != "4" {
		t.Errorf("解析结果不符: %#v", p)
	}
	if _, err := DecodeFormPayload([]byte("a=%zz")); err == nil {
		t.Error("非法编码应返回错误")
	}
}

func TestPayload_KeysSorted(t *testing.T) {
	p := Payload{"nom": "x", "email": "y", "prenom": "z"}
	if got := p.Keys(); !reflect.DeepEqual(got, []string{"email", "nom", "prenom"}) {
		t.Errorf("实际 %v", got)
	}
}

func TestPayload_String(t *testing.T) {
	p := Payload{"s": "a", "n": float64(3), "f": 2.5, "b": true, "z": nil, "o": map[string]interface{}{"k": "v"}}
	cases := map[string]string{"s": "a", "n": "3", "f": "2.5", "b": "true", "o": `{"k":"v"}`}
	for k, want := range cases {
		got, ok := p.String(k)
		if !ok || got != want {
			t.Errorf("%s: 期望 %q，实际 %q ok=%v", k, want, got, ok)
		}
	}
	if _, ok := p.String("z"); ok {
		t.Error("null 应视为缺失")
	}
	if _, ok := p.String("missing"); ok {
		t.Error("缺失字段应返回 ok=false")
	}
}
