package lexicon

// Job posting templates. One entry per category is drawn per pass when the
// page is recognized as a job posting form.
var (
	JobTitles = []string{
		"一般事務スタッフ",
		"倉庫内軽作業スタッフ",
		"ITエンジニア（Webアプリケーション開発）",
		"営業アシスタント",
		"コールセンターオペレーター",
		"製造ラインスタッフ",
		"イベント運営スタッフ",
		"データ入力スタッフ",
	}

	JobDescriptions = []string{
		"書類作成、データ入力、電話応対などの一般事務業務をお任せします。",
		"倉庫内での商品のピッキング、検品、梱包作業をお願いします。",
		"自社Webサービスの設計、開発、運用保守を担当していただきます。",
		"営業担当者のサポートとして、見積書作成や顧客対応を行っていただきます。",
		"お客様からのお問い合わせに電話で対応していただくお仕事です。",
		"工場内での部品の組立、検査、梱包作業を担当していただきます。",
	}

	JobSkills = []string{
		"Word、Excelの基本操作",
		"基本的なPC操作",
		"Go、TypeScriptでの開発経験",
		"丁寧な電話応対ができる方",
		"フォークリフトの運転経験",
		"チームでの協調性",
	}

	JobQualifications = []string{
		"未経験者歓迎",
		"高卒以上",
		"普通自動車運転免許",
		"日商簿記3級以上",
		"TOEIC 600点以上",
		"実務経験1年以上",
	}

	JobWorkingHours = []string{
		"9:00〜18:00（休憩60分）",
		"8:30〜17:30（休憩60分）",
		"10:00〜19:00（休憩60分）",
		"シフト制（1日8時間程度）",
		"9:00〜15:00（時短勤務可）",
	}

	JobComments = []string{
		"急募のため、早期に勤務開始できる方を優先します。",
		"業務拡大に伴う増員募集です。",
		"欠員補充のための募集です。",
		"繁忙期に向けた短期募集です。",
		"長期で働ける方を歓迎します。",
	}
)
