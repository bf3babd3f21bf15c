package lexicon

// NameEntry is one name component written in every script a Japanese form
// may ask for.
type NameEntry struct {
	Kanji    string
	Hiragana string
	Katakana string
	Romaji   string
}

// Surnames are gender independent.
var Surnames = []NameEntry{
	{Kanji: "佐藤", Hiragana: "さとう", Katakana: "サトウ", Romaji: "Sato"},
	{Kanji: "鈴木", Hiragana: "すずき", Katakana: "スズキ", Romaji: "Suzuki"},
	{Kanji: "高橋", Hiragana: "たかはし", Katakana: "タカハシ", Romaji: "Takahashi"},
	{Kanji: "田中", Hiragana: "たなか", Katakana: "タナカ", Romaji: "Tanaka"},
	{Kanji: "渡辺", Hiragana: "わたなべ", Katakana: "ワタナベ", Romaji: "Watanabe"},
	{Kanji: "伊藤", Hiragana: "いとう", Katakana: "イトウ", Romaji: "Ito"},
	{Kanji: "山本", Hiragana: "やまもと", Katakana: "ヤマモト", Romaji: "Yamamoto"},
	{Kanji: "中村", Hiragana: "なかむら", Katakana: "ナカムラ", Romaji: "Nakamura"},
	{Kanji: "小林", Hiragana: "こばやし", Katakana: "コバヤシ", Romaji: "Kobayashi"},
	{Kanji: "加藤", Hiragana: "かとう", Katakana: "カトウ", Romaji: "Kato"},
	{Kanji: "吉田", Hiragana: "よしだ", Katakana: "ヨシダ", Romaji: "Yoshida"},
	{Kanji: "山田", Hiragana: "やまだ", Katakana: "ヤマダ", Romaji: "Yamada"},
	{Kanji: "佐々木", Hiragana: "ささき", Katakana: "ササキ", Romaji: "Sasaki"},
	{Kanji: "山口", Hiragana: "やまぐち", Katakana: "ヤマグチ", Romaji: "Yamaguchi"},
	{Kanji: "松本", Hiragana: "まつもと", Katakana: "マツモト", Romaji: "Matsumoto"},
	{Kanji: "井上", Hiragana: "いのうえ", Katakana: "イノウエ", Romaji: "Inoue"},
	{Kanji: "木村", Hiragana: "きむら", Katakana: "キムラ", Romaji: "Kimura"},
	{Kanji: "林", Hiragana: "はやし", Katakana: "ハヤシ", Romaji: "Hayashi"},
	{Kanji: "斎藤", Hiragana: "さいとう", Katakana: "サイトウ", Romaji: "Saito"},
	{Kanji: "清水", Hiragana: "しみず", Katakana: "シミズ", Romaji: "Shimizu"},
}

// MaleGivenNames is sampled when the pass is synthesizing a male identity.
var MaleGivenNames = []NameEntry{
	{Kanji: "太郎", Hiragana: "たろう", Katakana: "タロウ", Romaji: "Taro"},
	{Kanji: "健二", Hiragana: "けんじ", Katakana: "ケンジ", Romaji: "Kenji"},
	{Kanji: "隆", Hiragana: "たかし", Katakana: "タカシ", Romaji: "Takashi"},
	{Kanji: "誠", Hiragana: "まこと", Katakana: "マコト", Romaji: "Makoto"},
	{Kanji: "浩", Hiragana: "ひろし", Katakana: "ヒロシ", Romaji: "Hiroshi"},
	{Kanji: "一郎", Hiragana: "いちろう", Katakana: "イチロウ", Romaji: "Ichiro"},
	{Kanji: "大輔", Hiragana: "だいすけ", Katakana: "ダイスケ", Romaji: "Daisuke"},
	{Kanji: "翔太", Hiragana: "しょうた", Katakana: "ショウタ", Romaji: "Shota"},
	{Kanji: "拓也", Hiragana: "たくや", Katakana: "タクヤ", Romaji: "Takuya"},
	{Kanji: "雄太", Hiragana: "ゆうた", Katakana: "ユウタ", Romaji: "Yuta"},
	{Kanji: "健太", Hiragana: "けんた", Katakana: "ケンタ", Romaji: "Kenta"},
	{Kanji: "颯", Hiragana: "はやて", Katakana: "ハヤテ", Romaji: "Hayate"},
	{Kanji: "蓮", Hiragana: "れん", Katakana: "レン", Romaji: "Ren"},
	{Kanji: "陽斗", Hiragana: "はると", Katakana: "ハルト", Romaji: "Haruto"},
	{Kanji: "悠真", Hiragana: "ゆうま", Katakana: "ユウマ", Romaji: "Yuma"},
}

// FemaleGivenNames is sampled when the pass is synthesizing a female identity.
var FemaleGivenNames = []NameEntry{
	{Kanji: "花子", Hiragana: "はなこ", Katakana: "ハナコ", Romaji: "Hanako"},
	{Kanji: "美咲", Hiragana: "みさき", Katakana: "ミサキ", Romaji: "Misaki"},
	{Kanji: "由美", Hiragana: "ゆみ", Katakana: "ユミ", Romaji: "Yumi"},
	{Kanji: "恵子", Hiragana: "けいこ", Katakana: "ケイコ", Romaji: "Keiko"},
	{Kanji: "陽菜", Hiragana: "ひな", Katakana: "ヒナ", Romaji: "Hina"},
	{Kanji: "結衣", Hiragana: "ゆい", Katakana: "ユイ", Romaji: "Yui"},
	{Kanji: "さくら", Hiragana: "さくら", Katakana: "サクラ", Romaji: "Sakura"},
	{Kanji: "愛", Hiragana: "あい", Katakana: "アイ", Romaji: "Ai"},
	{Kanji: "葵", Hiragana: "あおい", Katakana: "アオイ", Romaji: "Aoi"},
	{Kanji: "結菜", Hiragana: "ゆいな", Katakana: "ユイナ", Romaji: "Yuina"},
	{Kanji: "莉子", Hiragana: "りこ", Katakana: "リコ", Romaji: "Riko"},
	{Kanji: "凛", Hiragana: "りん", Katakana: "リン", Romaji: "Rin"},
	{Kanji: "杏", Hiragana: "あん", Katakana: "アン", Romaji: "An"},
	{Kanji: "美優", Hiragana: "みゆ", Katakana: "ミユ", Romaji: "Miyu"},
	{Kanji: "彩花", Hiragana: "あやか", Katakana: "アヤカ", Romaji: "Ayaka"},
}
