package msgxwhatsapp

import (
	"encoding/json"
	"testing"

	"github.com/Abraxas-365/wacloud/errx"
	"github.com/Abraxas-365/wacloud/msgx"
)

func TestBuildMediaRequiresIDOrLink(t *testing.T) {
	kinds := []MessageType{TypeImage, TypeVideo, TypeAudio, TypeDocument, TypeSticker}
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			_, err := BuildMedia(kind, Media{Caption: "c", Filename: "f.pdf"})
			if !errx.IsCode(err, msgx.ErrInvalidMessage) {
				t.Fatalf("expected validation error, got %v", err)
			}
			xerr, _ := errx.As(err)
			if want := string(kind) + " id or link required"; xerr.Message != want {
				t.Fatalf("expected message %q, got %q", want, xerr.Message)
			}
		})
	}
}

func TestBuildMediaIDWinsOverLink(t *testing.T) {
	obj, err := BuildMedia(TypeImage, Media{ID: "123", Link: "https://example.com/a.jpg", Caption: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj.ID != "123" || obj.Link != "" || obj.Caption != "hi" {
		t.Fatalf("unexpected media object %+v", obj)
	}
}

func TestBuildMediaDropsUnsupportedFields(t *testing.T) {
	obj, err := BuildMedia(TypeAudio, Media{Link: "https://example.com/a.ogg", Caption: "ignored", Filename: "ignored"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ := json.Marshal(obj)
	if string(data) != `{"link":"https://example.com/a.ogg"}` {
		t.Fatalf("unexpected audio body %s", data)
	}
}

func TestBuildDocumentRequiresFilename(t *testing.T) {
	_, err := BuildMedia(TypeDocument, Media{ID: "9"})
	if !errx.IsType(err, errx.TypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	obj, err := BuildMedia(TypeDocument, Media{ID: "9", Filename: "invoice.pdf"})
	if err != nil || obj.Filename != "invoice.pdf" {
		t.Fatalf("unexpected result %+v %v", obj, err)
	}
}

func TestBuildButtonsAssignsPositionalIDs(t *testing.T) {
	interactive, err := BuildButtons("Pick one", []string{"Yes", "No"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if interactive.Type != "button" || interactive.Body.Text != "Pick one" {
		t.Fatalf("unexpected interactive %+v", interactive)
	}

	buttons := interactive.Action.Buttons
	if len(buttons) != 2 {
		t.Fatalf("expected 2 buttons, got %d", len(buttons))
	}
	for i, want := range []ReplyTitle{{ID: "button_0", Title: "Yes"}, {ID: "button_1", Title: "No"}} {
		if buttons[i].Type != "reply" || buttons[i].Reply != want {
			t.Errorf("button %d = %+v, want %+v", i, buttons[i], want)
		}
	}

	if _, err := BuildButtons("empty", nil); !errx.IsType(err, errx.TypeValidation) {
		t.Fatalf("expected validation error for no buttons, got %v", err)
	}
}

func TestBuildListPassesSectionsThrough(t *testing.T) {
	sections := []ListSection{
		{Title: "Mains", Rows: []ListRow{{ID: "r1", Title: "Pasta"}, {ID: "r2", Title: "Soup", Description: "Hot"}}},
	}
	interactive := BuildList("Menu", "View", sections)

	data, _ := json.Marshal(interactive)
	want := `{"type":"list","body":{"text":"Menu"},"action":{"button":"View","sections":[{"title":"Mains","rows":[{"id":"r1","title":"Pasta"},{"id":"r2","title":"Soup","description":"Hot"}]}]}}`
	if string(data) != want {
		t.Fatalf("unexpected list body\n got: %s\nwant: %s", data, want)
	}
}

func TestBuildLocationOmitsEmptyFields(t *testing.T) {
	data, _ := json.Marshal(BuildLocation(Location{Latitude: 1.5, Longitude: -2}))
	if string(data) != `{"latitude":1.5,"longitude":-2}` {
		t.Fatalf("unexpected location body %s", data)
	}
}

func TestBuildTemplateAndReaction(t *testing.T) {
	if _, err := BuildTemplate(Template{Name: "hello_world"}); !errx.IsType(err, errx.TypeValidation) {
		t.Fatalf("expected missing language to fail, got %v", err)
	}
	tmpl, err := BuildTemplate(Template{Name: "hello_world", LanguageCode: "en_US"})
	if err != nil || tmpl.Language.Code != "en_US" {
		t.Fatalf("unexpected template %+v %v", tmpl, err)
	}

	if _, err := BuildReaction("", "👍"); !errx.IsType(err, errx.TypeValidation) {
		t.Fatalf("expected missing message id to fail, got %v", err)
	}
	reaction, err := BuildReaction("wamid.1", "")
	if err != nil {
		t.Fatalf("empty emoji removes a reaction and must be accepted: %v", err)
	}
	data, _ := json.Marshal(reaction)
	if string(data) != `{"message_id":"wamid.1","emoji":""}` {
		t.Fatalf("unexpected reaction body %s", data)
	}
}

func TestTextAlwaysCarriesPreviewURL(t *testing.T) {
	data, _ := json.Marshal(BuildText("Hello", false))
	if string(data) != `{"preview_url":false,"body":"Hello"}` {
		t.Fatalf("unexpected text body %s", data)
	}
}
