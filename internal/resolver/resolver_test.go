package resolver

import (
	"testing"

	"github.com/nao1215/jpfill/internal/classifier"
	"github.com/nao1215/jpfill/internal/convention"
	"github.com/nao1215/jpfill/internal/dom"
	"github.com/nao1215/jpfill/internal/lexicon"
	"github.com/nao1215/jpfill/internal/model"
)

func testRecord() *model.SyntheticRecord {
	return &model.SyntheticRecord{
		Name: model.PersonName{
			SurnameKanji:      "渡辺",
			GivenNameKanji:    "花子",
			SurnameHiragana:   "わたなべ",
			GivenNameHiragana: "はなこ",
			SurnameKatakana:   "ワタナベ",
			GivenNameKatakana: "ハナコ",
			SurnameRomaji:     "Watanabe",
			GivenNameRomaji:   "Hanako",
		},
		Address: model.Address{
			PostalCode:  "123-4567",
			Prefecture:  "東京都",
			City:        "新宿区",
			Town:        "西新宿",
			BlockNumber: "1-2-3",
			Full:        "〒123-4567 東京都新宿区西新宿1-2-3",
		},
		Phone:       "090-1234-5678",
		Landline:    "03-1234-5678",
		Email:       "hanako.watanabe@example.com",
		CompanyName: "有限会社渡辺機械",
		DateOfBirth: "1990-04-01",
		Gender:      model.GenderFemale,
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		ft       model.FieldType
		expected string
	}{
		{model.FieldFullNameKanji, "渡辺 花子"},
		{model.FieldSurnameKanji, "渡辺"},
		{model.FieldGivenNameKanji, "花子"},
		{model.FieldFullNameHiragana, "わたなべ はなこ"},
		{model.FieldSurnameHiragana, "わたなべ"},
		{model.FieldGivenNameHiragana, "はなこ"},
		{model.FieldFullNameKatakana, "ワタナベ ハナコ"},
		{model.FieldSurnameKatakana, "ワタナベ"},
		{model.FieldGivenNameKatakana, "ハナコ"},
		{model.FieldEmail, "hanako.watanabe@example.com"},
		{model.FieldPhone, "090-1234-5678"},
		{model.FieldMobilePhone, "090-1234-5678"},
		{model.FieldPostalCode, "123-4567"},
		{model.FieldPrefecture, "東京都"},
		{model.FieldCity, "新宿区"},
		{model.FieldAddress, "西新宿1-2-3"},
		{model.FieldFullAddress, "〒123-4567 東京都新宿区西新宿1-2-3"},
		{model.FieldCompanyName, "有限会社渡辺機械"},
		{model.FieldDate, "1990-04-01"},
		{model.FieldGenericText, lexicon.GenericText},
	}

	r := New(classifier.New(convention.Default()))
	rec := testRecord()
	for _, tc := range testCases {
		t.Run(tc.ft.String(), func(t *testing.T) {
			t.Parallel()
			got, ok := r.Resolve(tc.ft, rec, model.PageDefault, nil, nil)
			if !ok {
				t.Fatal("expected a value")
			}
			if got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestResolveAbsent(t *testing.T) {
	t.Parallel()

	r := New(classifier.New(convention.Default()))
	for _, ft := range []model.FieldType{model.FieldIgnore, model.FieldNumber, model.FieldURL} {
		t.Run(ft.String(), func(t *testing.T) {
			t.Parallel()
			if v, ok := r.Resolve(ft, testRecord(), model.PageDefault, nil, nil); ok {
				t.Errorf("expected no value for %v, got %q", ft, v)
			}
		})
	}
}

func TestResolveOptions(t *testing.T) {
	t.Parallel()

	r := New(classifier.New(convention.Default()),
		WithNameFormat(NameFormatGivenFirst), WithPhoneStyle(PhoneStyleLandline))
	rec := testRecord()

	if got, _ := r.Resolve(model.FieldFullNameKatakana, rec, model.PageDefault, nil, nil); got != "ハナコ ワタナベ" {
		t.Errorf("expected given name first, got %q", got)
	}
	if got, _ := r.Resolve(model.FieldPhone, rec, model.PageDefault, nil, nil); got != "03-1234-5678" {
		t.Errorf("expected landline, got %q", got)
	}
	if got, _ := r.Resolve(model.FieldMobilePhone, rec, model.PageDefault, nil, nil); got != "090-1234-5678" {
		t.Errorf("expected mobile for a mobile field, got %q", got)
	}
}

func TestResolveJobPosting(t *testing.T) {
	t.Parallel()

	doc, err := dom.ParseString(`<html><body>
<label>業務内容</label><textarea id="desc"></textarea>
<label for="mail">メール</label><input id="mail">
</body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	facts := &model.JobPostingFacts{Description: "倉庫内での軽作業です。"}
	r := New(classifier.New(convention.Default()))
	rec := testRecord()

	desc := doc.ByID("desc")
	got, ok := r.Resolve(model.FieldGenericText, rec, model.PageJobPosting, facts, desc)
	if !ok || got != facts.Description {
		t.Errorf("expected job description, got %q (%v)", got, ok)
	}

	got, _ = r.Resolve(model.FieldGenericText, rec, model.PageDefault, facts, desc)
	if got != lexicon.GenericText {
		t.Errorf("expected generic text outside job posting pages, got %q", got)
	}

	mail := doc.ByID("mail")
	got, _ = r.Resolve(model.FieldEmail, rec, model.PageJobPosting, facts, mail)
	if got != rec.Email {
		t.Errorf("expected email mapping for a non job field, got %q", got)
	}
}
