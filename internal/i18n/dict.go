package i18n

import "github.com/arazdetector/mdbaku/internal/domain"

type entry struct{ ru, az string }

var dict = map[string]entry{
	"nav.home":     {"Главная", "Ana səhifə"},
	"nav.catalog":  {"Каталог", "Kataloq"},
	"nav.blog":     {"Блог", "Bloq"},
	"nav.about":    {"О нас", "Haqqımızda"},
	"nav.contacts": {"Контакты", "Əlaqə"},
	"nav.cart":     {"Корзина", "Səbət"},

	"header.search":  {"Поиск металлоискателей...", "Metal detektor axtarışı..."},
	"header.tagline": {"Металлоискатели и оборудование в Баку", "Bakıda metal detektorlar və avadanlıqlar"},

	"home.hero_title": {"Металлоискатели для поиска и хобби", "Axtarış və hobbi üçün metal detektorlar"},
	"home.hero_text":  {"Официальные модели XP, Minelab, Garrett и Nokta с гарантией и доставкой по Азербайджану.", "Zəmanət və Azərbaycan üzrə çatdırılma ilə XP, Minelab, Garrett və Nokta modelləri."},
	"home.hero_cta":   {"Перейти в каталог", "Kataloqa keçid"},
	"home.categories": {"Категории", "Kateqoriyalar"},
	"home.posts":      {"Статьи и новости", "Məqalələr və xəbərlər"},
	"home.view_all":   {"Смотреть все", "Hamısına bax"},

	"catalog.title":          {"Каталог товаров", "Məhsul kataloqu"},
	"catalog.filters":        {"Фильтры", "Filtrlər"},
	"catalog.all_categories": {"Все категории", "Bütün kateqoriyalar"},
	"catalog.price_from":     {"Цена от", "Qiymət (min)"},
	"catalog.price_to":       {"Цена до", "Qiymət (maks)"},
	"catalog.in_stock":       {"Только в наличии", "Yalnız stokda olanlar"},
	"catalog.sort":           {"Сортировка", "Sıralama"},
	"catalog.apply":          {"Применить", "Tətbiq et"},
	"catalog.reset":          {"Сбросить", "Sıfırla"},
	"catalog.empty":          {"Товары не найдены", "Məhsul tapılmadı"},
	"catalog.found":          {"Найдено товаров", "Tapılan məhsullar"},

	"sort.popular":    {"Популярные", "Populyar"},
	"sort.new":        {"Новинки", "Yenilər"},
	"sort.price_asc":  {"Сначала дешевле", "Əvvəlcə ucuz"},
	"sort.price_desc": {"Сначала дороже", "Əvvəlcə baha"},

	"product.in_stock":     {"В наличии", "Stokda var"},
	"product.out_of_stock": {"Нет в наличии", "Stokda yoxdur"},
	"product.add_to_cart":  {"В корзину", "Səbətə at"},
	"product.description":  {"Описание", "Təsvir"},
	"product.specs":        {"Характеристики", "Xüsusiyyətlər"},
	"product.related":      {"Похожие товары", "Oxşar məhsullar"},

	"cart.title":    {"Корзина", "Səbət"},
	"cart.empty":    {"Корзина пуста", "Səbət boşdur"},
	"cart.items":    {"Товаров", "Məhsul sayı"},
	"cart.total":    {"Итого", "Cəmi"},
	"cart.checkout": {"Оформить через WhatsApp", "WhatsApp ilə sifariş et"},
	"cart.continue": {"Продолжить покупки", "Alış-verişə davam et"},
	"cart.remove":   {"Удалить", "Sil"},
	"cart.close":    {"Закрыть", "Bağla"},

	"blog.title":     {"Блог", "Bloq"},
	"blog.read_more": {"Читать далее", "Ətraflı oxu"},
	"blog.empty":     {"Статей пока нет", "Hələ məqalə yoxdur"},
	"blog.back":      {"Все статьи", "Bütün məqalələr"},

	"contacts.title":   {"Свяжитесь с нами", "Bizimlə əlaqə"},
	"contacts.name":    {"Имя", "Ad"},
	"contacts.phone":   {"Телефон", "Telefon"},
	"contacts.message": {"Сообщение", "Mesaj"},
	"contacts.send":    {"Отправить", "Göndər"},
	"contacts.sent":    {"Спасибо! Мы свяжемся с вами в ближайшее время.", "Təşəkkürlər! Tezliklə sizinlə əlaqə saxlayacağıq."},
	"contacts.error":   {"Не удалось отправить заявку. Попробуйте позже или позвоните нам.", "Müraciət göndərilmədi. Sonra yenidən cəhd edin və ya bizə zəng edin."},
	"contacts.invalid": {"Заполните все поля формы.", "Formun bütün sahələrini doldurun."},
	"contacts.address": {"Баку, Азербайджан", "Bakı, Azərbaycan"},
	"contacts.hours":   {"Ежедневно 10:00 - 20:00", "Hər gün 10:00 - 20:00"},

	"about.title":   {"О компании MD Baku", "MD Baku haqqında"},
	"about.body":    {"MD Baku продаёт металлоискатели, пинпоинтеры и аксессуары ведущих производителей. Мы помогаем подобрать прибор под задачу и обучаем работе с ним.", "MD Baku aparıcı istehsalçıların metal detektorlarını, pinpointerlərini və aksesuarlarını satır. Cihazı tapşırığa uyğun seçməyə və onunla işləməyə kömək edirik."},
	"privacy.title": {"Политика конфиденциальности", "Məxfilik siyasəti"},
	"privacy.body":  {"Мы используем имя и телефон из формы обратной связи только для ответа на вашу заявку и не передаём их третьим лицам.", "Əlaqə formundakı ad və telefon yalnız müraciətinizə cavab vermək üçün istifadə olunur və üçüncü şəxslərə ötürülmür."},
	"terms.title":   {"Условия использования", "İstifadə şərtləri"},
	"terms.body":    {"Цены на сайте указаны в манатах и носят информационный характер. Заказ подтверждается менеджером в WhatsApp.", "Saytdakı qiymətlər manatla göstərilir və məlumat xarakteri daşıyır. Sifariş WhatsApp-da menecer tərəfindən təsdiqlənir."},

	"footer.rights":  {"Все права защищены.", "Bütün hüquqlar qorunur."},
	"footer.privacy": {"Конфиденциальность", "Məxfilik"},
	"footer.terms":   {"Условия", "Şərtlər"},

	"notfound.title": {"Страница не найдена", "Səhifə tapılmadı"},
	"notfound.text":  {"Возможно, товар снят с продажи или адрес введён с ошибкой.", "Ola bilsin ki, məhsul satışdan çıxarılıb və ya ünvan səhv yazılıb."},
	"notfound.back":  {"На главную", "Ana səhifəyə"},

	"pagination.prev": {"Назад", "Geri"},
	"pagination.next": {"Вперёд", "İrəli"},
}

// T returns the UI string for key, or the key itself when it is unknown.
func T(l domain.Lang, key string) string {
	e, ok := dict[key]
	if !ok {
		return key
	}
	if l == domain.LangRU {
		return e.ru
	}
	return e.az
}

// Other returns the language the switcher links to.
func Other(l domain.Lang) domain.Lang {
	if l == domain.LangRU {
		return domain.LangAZ
	}
	return domain.LangRU
}
