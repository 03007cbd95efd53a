package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestProductDBTags(t *testing.T) {
	// получаем тип структуры Product для анализа рефлексией
	typ := reflect.TypeOf(Product{})
	cases := map[string]string{
		"ID":        "id",
		"Kind":      "kind",
		"Priority":  "priority",
		"Visible":   "visible",
		"UpdatedAt": "updated_at",
	}
	for name, tag := range cases {
		field, found := typ.FieldByName(name)
		if !found {
			t.Errorf("Поле %s не найдено в структуре Product", name)
			continue
		}
		if field.Tag.Get("db") != tag {
			t.Errorf("Ожидался тег db:'%s' для поля %s, получили '%s'", tag, name, field.Tag.Get("db"))
		}
	}
}

func TestPriorityUpdateDBTags(t *testing.T) {
	typ := reflect.TypeOf(PriorityUpdate{})
	field, found := typ.FieldByName("ID")
	if !found {
		t.Errorf("Поле ID не найдено в структуре PriorityUpdate")
	}
	if field.Tag.Get("db") != "id" {
		t.Errorf("Ожидался тег db:'id' для поля ID, получили '%s'", field.Tag.Get("db"))
	}
	field, _ = typ.FieldByName("Priority")
	if field.Tag.Get("db") != "priority" {
		t.Errorf("Ожидался тег db:'priority' для поля Priority, получили '%s'", field.Tag.Get("db"))
	}
}

func TestKindPath(t *testing.T) {
	// исторические сегменты URL: /coffee, /treats, /cakes
	if KindCoffee.Path() != "coffee" || KindTreat.Path() != "treats" || KindCake.Path() != "cakes" {
		t.Fatalf("unexpected paths: %s %s %s", KindCoffee.Path(), KindTreat.Path(), KindCake.Path())
	}
	if Kind("tea").Valid() {
		t.Fatal("unknown kind must not be valid")
	}
	if Kind("tea").Path() != "tea" {
		t.Fatal("unknown kind path should fall back to its name")
	}
}

func TestMessageJSONNames(t *testing.T) {
	// тело сообщения сериализуется под именем message, как в старом API
	data, _ := json.Marshal(Message{ID: "1", ContactInfo: "c", Body: "hello"})
	var raw map[string]interface{}
	_ = json.Unmarshal(data, &raw)
	if raw["message"] != "hello" || raw["contactInfo"] != "c" {
		t.Fatalf("unexpected json: %s", data)
	}
	if _, ok := raw["name"]; ok {
		t.Fatalf("empty name must be omitted: %s", data)
	}
}
